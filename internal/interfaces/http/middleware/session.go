package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
)

const (
	SessionKeyHeader     = "X-Session-Key"
	OrganizationIDHeader = "X-Organization-ID"

	// Gin context keys set by SessionAuth.
	SessionKeyContextKey     = "session_key"
	OrganizationIDContextKey = "organization_id"
)

// SessionValidator checks a (session key, organization) pair.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionKey, orgID string) (bool, error)
}

// SessionAuth admits only requests whose session key belongs to the claimed
// organization. A lookup error is treated as an invalid session.
func SessionAuth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionKey := c.GetHeader(SessionKeyHeader)
		orgID := c.GetHeader(OrganizationIDHeader)
		if sessionKey == "" || orgID == "" {
			abortUnauthorized(c, "Session key and organization are required")
			return
		}

		ok, err := validator.ValidateSession(c.Request.Context(), sessionKey, orgID)
		if err != nil {
			logger.GetGinLogger(c).Warn("Session validation failed", zap.Error(err))
		}
		if err != nil || !ok {
			abortUnauthorized(c, "Session is missing or has expired")
			return
		}

		c.Set(SessionKeyContextKey, sessionKey)
		c.Set(OrganizationIDContextKey, orgID)
		c.Request = c.Request.WithContext(logger.WithOrganizationID(c.Request.Context(), orgID))
		c.Next()
	}
}

// GetOrganizationID returns the organization admitted by SessionAuth.
func GetOrganizationID(c *gin.Context) string {
	return c.GetString(OrganizationIDContextKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeSessionInvalid,
		message,
		GetRequestID(c),
	))
}
