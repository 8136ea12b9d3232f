package main

import (
	"context"

	tradeapp "github.com/squizz-sync/backend/internal/application/trade"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/domain/trade"
)

// unconfiguredOrders answers order requests when no platform is configured.
type unconfiguredOrders struct{}

func (unconfiguredOrders) SubmitOrder(context.Context, tradeapp.SubmitOrderInput) (*trade.Submission, error) {
	return nil, shared.ErrUnavailable
}

func (unconfiguredOrders) GetOrderHistory(context.Context, string) ([]trade.OrderSummary, error) {
	return nil, shared.ErrUnavailable
}
