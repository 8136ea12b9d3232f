package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/identity"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/domain/trade"
)

type mockOrderGateway struct {
	mock.Mock
}

func (m *mockOrderGateway) SubmitPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) (*trade.Submission, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Submission), args.Error(1)
}

func (m *mockOrderGateway) OrderHistory(ctx context.Context, sessionKey string) ([]trade.OrderSummary, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.OrderSummary), args.Error(1)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) FindSession(ctx context.Context, sessionKey string) (*identity.Session, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func TestOrderIntake_SubmitOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	lines := []trade.OrderLine{{KeyProductID: "P1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5)}}

	t.Run("builds the order for the session organization", func(t *testing.T) {
		gw := new(mockOrderGateway)
		sessions := new(mockSessions)
		sessions.On("FindSession", ctx, "key-1").Return(&identity.Session{SessionKey: "key-1", OrganizationID: "buyer"}, nil)
		gw.On("SubmitPurchaseOrder", ctx, mock.MatchedBy(func(o *trade.PurchaseOrder) bool {
			return o.OrganizationID == "buyer" &&
				o.SupplierOrgID == "supplier" &&
				o.SessionKey == "key-1" &&
				o.CreatedDate.Equal(now) &&
				o.KeyPurchaseOrderID != "" &&
				o.TotalExTax().Equal(decimal.NewFromInt(10))
		})).Return(&trade.Submission{Result: "SUCCESS", ResultCode: "SERVER_SUCCESS"}, nil)

		intake := NewOrderIntake(gw, sessions, "supplier", zap.NewNop())
		intake.now = func() time.Time { return now }

		sub, err := intake.SubmitOrder(ctx, SubmitOrderInput{SessionKey: "key-1", Lines: lines})
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", sub.Result)
		gw.AssertExpectations(t)
	})

	t.Run("unknown session", func(t *testing.T) {
		gw := new(mockOrderGateway)
		sessions := new(mockSessions)
		sessions.On("FindSession", ctx, "gone").Return(nil, shared.ErrNotFound)

		_, err := NewOrderIntake(gw, sessions, "supplier", zap.NewNop()).
			SubmitOrder(ctx, SubmitOrderInput{SessionKey: "gone", Lines: lines})
		assert.ErrorIs(t, err, shared.ErrSessionInvalid)
		gw.AssertNotCalled(t, "SubmitPurchaseOrder", mock.Anything, mock.Anything)
	})

	t.Run("empty session key", func(t *testing.T) {
		_, err := NewOrderIntake(new(mockOrderGateway), new(mockSessions), "supplier", zap.NewNop()).
			SubmitOrder(ctx, SubmitOrderInput{Lines: lines})
		assert.ErrorIs(t, err, shared.ErrSessionInvalid)
	})

	t.Run("invalid lines", func(t *testing.T) {
		sessions := new(mockSessions)
		sessions.On("FindSession", ctx, "key-1").Return(&identity.Session{SessionKey: "key-1", OrganizationID: "buyer"}, nil)

		_, err := NewOrderIntake(new(mockOrderGateway), sessions, "supplier", zap.NewNop()).
			SubmitOrder(ctx, SubmitOrderInput{SessionKey: "key-1"})
		assert.ErrorContains(t, err, "at least one line")
	})

	t.Run("platform failure", func(t *testing.T) {
		gw := new(mockOrderGateway)
		sessions := new(mockSessions)
		sessions.On("FindSession", ctx, "key-1").Return(&identity.Session{SessionKey: "key-1", OrganizationID: "buyer"}, nil)
		gw.On("SubmitPurchaseOrder", ctx, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := NewOrderIntake(gw, sessions, "supplier", zap.NewNop()).
			SubmitOrder(ctx, SubmitOrderInput{SessionKey: "key-1", Lines: lines})
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})
}

func TestOrderIntake_GetOrderHistory(t *testing.T) {
	ctx := context.Background()

	gw := new(mockOrderGateway)
	sessions := new(mockSessions)
	sessions.On("FindSession", ctx, "key-1").Return(&identity.Session{SessionKey: "key-1", OrganizationID: "buyer"}, nil)
	sessions.On("FindSession", ctx, "expired").Return(nil, shared.ErrSessionInvalid)
	history := []trade.OrderSummary{{KeyPurchaseOrderID: "PO-1", BillStatus: trade.BillStatusBilled}}
	gw.On("OrderHistory", ctx, "key-1").Return(history, nil)

	intake := NewOrderIntake(gw, sessions, "supplier", zap.NewNop())

	got, err := intake.GetOrderHistory(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, history, got)

	_, err = intake.GetOrderHistory(ctx, "expired")
	assert.ErrorIs(t, err, shared.ErrSessionInvalid)
}
