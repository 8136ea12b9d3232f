package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
)

const healthPingTimeout = 2 * time.Second

// DatabaseChecker reports on the database connection.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves /health.
type HealthHandler struct {
	db DatabaseChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health answers 200 when the database responds to a ping and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unhealthy", Database: "unreachable"})
		return
	}

	resp := dto.HealthResponse{Status: "healthy", Database: "ok"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Stats = stats
	}
	c.JSON(http.StatusOK, resp)
}
