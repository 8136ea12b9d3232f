package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/application/trade"
	domaintrade "github.com/squizz-sync/backend/internal/domain/trade"
)

// OrderService is the part of trade.OrderIntake the handler needs.
type OrderService interface {
	SubmitOrder(ctx context.Context, input trade.SubmitOrderInput) (*domaintrade.Submission, error)
	GetOrderHistory(ctx context.Context, sessionKey string) ([]domaintrade.OrderSummary, error)
}

// OrderHandler serves purchase submission and order history. Both routes
// keep the platform client's shape: the session travels in the request
// rather than in headers.
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// SubmitPurchase places a purchase order.
//
//	POST /api/purchase {"sessionKey": "...", "lines": [...]}
func (h *OrderHandler) SubmitPurchase(c *gin.Context) {
	var input trade.SubmitOrderInput
	if !h.BindJSON(c, &input) {
		return
	}

	submission, err := h.orders.SubmitOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// History lists the orders of the session's organization.
//
//	GET|POST /api/history?session_id=...
func (h *OrderHandler) History(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		h.BadRequest(c, "session_id is required")
		return
	}

	history, err := h.orders.GetOrderHistory(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if history == nil {
		history = []domaintrade.OrderSummary{}
	}
	c.JSON(http.StatusOK, history)
}
