package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/identity"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/domain/trade"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
)

// OrderGateway forwards purchase orders to the platform.
type OrderGateway interface {
	SubmitPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) (*trade.Submission, error)
	OrderHistory(ctx context.Context, sessionKey string) ([]trade.OrderSummary, error)
}

// SessionFinder resolves a session key to its stored session.
type SessionFinder interface {
	FindSession(ctx context.Context, sessionKey string) (*identity.Session, error)
}

// SubmitOrderInput is the body of a purchase request.
type SubmitOrderInput struct {
	SessionKey string            `json:"sessionKey" binding:"required"`
	Lines      []trade.OrderLine `json:"lines" binding:"required,min=1,dive"`
}

// OrderIntake turns purchase requests into purchase orders for the configured
// supplier and hands them to the platform.
type OrderIntake struct {
	gateway       OrderGateway
	sessions      SessionFinder
	supplierOrgID string
	logger        *zap.Logger
	now           func() time.Time
}

// NewOrderIntake creates a new OrderIntake
func NewOrderIntake(gateway OrderGateway, sessions SessionFinder, supplierOrgID string, logger *zap.Logger) *OrderIntake {
	return &OrderIntake{
		gateway:       gateway,
		sessions:      sessions,
		supplierOrgID: supplierOrgID,
		logger:        logger,
		now:           time.Now,
	}
}

// SubmitOrder places an order on behalf of the organization that owns the
// session.
func (s *OrderIntake) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*trade.Submission, error) {
	log := logger.Enrich(ctx, s.logger)

	session, err := s.session(ctx, input.SessionKey)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(uuid.NewString(), session.SessionKey, session.OrganizationID, s.supplierOrgID, input.Lines, s.now().UTC())
	if err != nil {
		return nil, err
	}

	submission, err := s.gateway.SubmitPurchaseOrder(ctx, order)
	if err != nil {
		log.Error("Failed to submit purchase order",
			zap.String("key_purchase_order_id", order.KeyPurchaseOrderID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	log.Info("Purchase order submitted",
		zap.String("key_purchase_order_id", order.KeyPurchaseOrderID),
		zap.String("organization_id", order.OrganizationID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total_ex_tax", order.TotalExTax().String()),
		zap.String("result", submission.Result),
	)
	return submission, nil
}

// GetOrderHistory lists the orders placed by the session's organization.
func (s *OrderIntake) GetOrderHistory(ctx context.Context, sessionKey string) ([]trade.OrderSummary, error) {
	session, err := s.session(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	history, err := s.gateway.OrderHistory(ctx, session.SessionKey)
	if err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to fetch order history", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	return history, nil
}

func (s *OrderIntake) session(ctx context.Context, sessionKey string) (*identity.Session, error) {
	if sessionKey == "" {
		return nil, shared.ErrSessionInvalid
	}
	session, err := s.sessions.FindSession(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrSessionInvalid) {
			return nil, shared.ErrSessionInvalid
		}
		return nil, err
	}
	return session, nil
}
