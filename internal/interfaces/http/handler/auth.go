package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/squizz-sync/backend/internal/application/identity"
	"github.com/squizz-sync/backend/internal/interfaces/http/dto"
)

// AuthService is the part of identity.AuthService the handler needs.
type AuthService interface {
	Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error)
	Logout(ctx context.Context, sessionKey string) error
	Register(ctx context.Context, input identity.RegisterInput) error
}

// AuthHandler handles login, logout and account registration.
type AuthHandler struct {
	BaseHandler
	auth AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login opens a session for valid credentials.
//
//	POST /auth/login {"username": "...", "password": "..."}
//	-> {"sessionKey": "...", "organizationId": "..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var input identity.LoginInput
	if !h.BindJSON(c, &input) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout deletes the session. Unknown keys are not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.SessionKeyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.SessionKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "logged out"})
}

// Register creates an account bound to an organization.
func (h *AuthHandler) Register(c *gin.Context) {
	var input identity.RegisterInput
	if !h.BindJSON(c, &input) {
		return
	}

	if err := h.auth.Register(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"username": input.Username, "organizationId": input.OrganizationID})
}
