package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
)

// SessionOpener opens a session for the service's organization on the
// platform and returns its key.
type SessionOpener interface {
	CreateSession(ctx context.Context) (string, error)
}

// LocalSessionOpener issues random session keys without contacting the
// platform. It is used when no platform credentials are configured.
type LocalSessionOpener struct{}

// CreateSession implements SessionOpener.
func (LocalSessionOpener) CreateSession(context.Context) (string, error) {
	return uuid.NewString(), nil
}

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	SessionKey     string `json:"sessionKey"`
	OrganizationID string `json:"organizationId"`
}

// RegisterInput holds the fields needed to create an account.
type RegisterInput struct {
	Username       string `json:"username" binding:"required,max=100"`
	Password       string `json:"password" binding:"required,max=72"`
	OrganizationID string `json:"organizationId" binding:"required"`
}

// AuthService ties credential checks, platform sessions and the session
// ledger together for the HTTP layer.
type AuthService struct {
	verifier *IdentityVerifier
	ledger   *SessionLedger
	opener   SessionOpener
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(verifier *IdentityVerifier, ledger *SessionLedger, opener SessionOpener, logger *zap.Logger) *AuthService {
	return &AuthService{
		verifier: verifier,
		ledger:   ledger,
		opener:   opener,
		logger:   logger,
	}
}

// Login verifies the credentials, opens a platform session and records it.
// Recording the session is best-effort: a storage failure is logged and the
// session key is still returned.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.Enrich(ctx, s.logger)
	log.Info("Login attempt", zap.String("username", input.Username))

	orgID, ok := s.verifier.ValidateUsernamePassword(ctx, input.Username, input.Password)
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}

	sessionKey, err := s.opener.CreateSession(ctx)
	if err != nil {
		log.Error("Failed to open platform session", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}

	if err := s.ledger.StoreSession(ctx, input.Username, sessionKey, orgID); err != nil {
		log.Warn("Session was not recorded, continuing", zap.Error(err))
	}

	log.Info("User logged in", zap.String("username", input.Username), zap.String("organization_id", orgID))
	return &LoginResult{SessionKey: sessionKey, OrganizationID: orgID}, nil
}

// Logout forgets sessionKey.
func (s *AuthService) Logout(ctx context.Context, sessionKey string) error {
	return s.ledger.DeleteSession(ctx, sessionKey)
}

// Register creates a local account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	return s.verifier.CreateUser(ctx, input.Username, input.Password, input.OrganizationID)
}
