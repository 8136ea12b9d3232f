package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/catalog"
	"github.com/squizz-sync/backend/internal/domain/shared"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockFeed) FetchPrices(ctx context.Context) ([]catalog.Price, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Price), args.Error(1)
}

func TestSyncService_SyncCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("prices see the products of the same sync", func(t *testing.T) {
		gw := newGateway(t)
		feed := new(mockFeed)
		feed.On("FetchProducts", mock.Anything).Return([]catalog.Product{newProduct("P1"), newProduct("P2")}, nil).Once()
		feed.On("FetchPrices", mock.Anything).Return([]catalog.Price{
			{KeyProductID: "P1", Price: decimal.NewFromInt(3)},
			{KeyProductID: "P2", Price: decimal.NewFromInt(4)},
		}, nil).Once()

		svc := NewSyncService(feed,
			NewProductReconciler(gw, ReconcilerConfig{Workers: 3}, zap.NewNop()),
			NewPriceReconciler(gw, ReconcilerConfig{Workers: 3}, zap.NewNop()),
			zap.NewNop())

		report, err := svc.SyncCatalog(ctx)
		require.NoError(t, err)

		assert.Equal(t, shared.NewBatchResult(MessageProductsUpdated, nil), report.Products)
		assert.Equal(t, shared.NewBatchResult(MessagePricesUpdated, nil), report.Prices)
		assert.Equal(t, int64(2), countRows(t, gw, "prices"))
		feed.AssertExpectations(t)
	})

	t.Run("stops when the product feed fails", func(t *testing.T) {
		gw := newGateway(t)
		feed := new(mockFeed)
		feed.On("FetchProducts", mock.Anything).Return(nil, errors.New("platform unavailable")).Once()

		svc := NewSyncService(feed,
			NewProductReconciler(gw, ReconcilerConfig{}, zap.NewNop()),
			NewPriceReconciler(gw, ReconcilerConfig{}, zap.NewNop()),
			zap.NewNop())

		report, err := svc.SyncCatalog(ctx)
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "fetch products")
		feed.AssertNotCalled(t, "FetchPrices", mock.Anything)
	})
}

func TestProductQueries(t *testing.T) {
	ctx := context.Background()
	gw := newGateway(t)

	require.Empty(t, NewProductReconciler(gw, ReconcilerConfig{}, zap.NewNop()).
		StoreProducts(ctx, []catalog.Product{newProduct("P1"), newProduct("P2")}).Data.Failed)
	require.Empty(t, NewPriceReconciler(gw, ReconcilerConfig{}, zap.NewNop()).
		StorePrices(ctx, []catalog.Price{{KeyProductID: "P1", Price: decimal.RequireFromString("4.99")}}).Data.Failed)

	queries := NewProductQueries(gw)

	t.Run("by barcode joins the price", func(t *testing.T) {
		got, err := queries.FindByBarcode(ctx, "93P1")
		require.NoError(t, err)
		assert.Equal(t, "P1", got.KeyProductID)
		assert.Equal(t, "Product P1", got.ProductName)
		assert.True(t, decimal.RequireFromString("4.99").Equal(got.Price))
	})

	t.Run("by product code without a price", func(t *testing.T) {
		got, err := queries.FindByProductCode(ctx, "CODE-P2")
		require.NoError(t, err)
		assert.Equal(t, "P2", got.KeyProductID)
		assert.True(t, got.Price.IsZero())
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := queries.FindByBarcode(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = queries.FindByKeyProductID(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
