package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/identity"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
)

// IdentityVerifier checks local credentials and creates local accounts.
type IdentityVerifier struct {
	db           persistence.Executor
	passwordCost int
	logger       *zap.Logger

	decoyOnce sync.Once
	decoyHash string
}

// NewIdentityVerifier creates a new IdentityVerifier. passwordCost is the
// bcrypt cost for new accounts; zero selects identity.DefaultPasswordCost.
func NewIdentityVerifier(db persistence.Executor, passwordCost int, logger *zap.Logger) *IdentityVerifier {
	if passwordCost == 0 {
		passwordCost = identity.DefaultPasswordCost
	}
	return &IdentityVerifier{db: db, passwordCost: passwordCost, logger: logger}
}

// ValidateUsernamePassword returns the user's organization when the password
// matches. Unknown users and wrong passwords are indistinguishable to the
// caller.
func (v *IdentityVerifier) ValidateUsernamePassword(ctx context.Context, username, password string) (string, bool) {
	log := logger.Enrich(ctx, v.logger)

	res, err := v.db.Execute(ctx, selectCredentialSQL, []any{username}, false)
	if err != nil {
		log.Error("Failed to look up user", zap.String("username", username), zap.Error(err))
		return "", false
	}

	// unknown users are compared against a decoy hash of the same cost
	hash := v.decoy()
	row, found := res.First()
	if found && row.String("password_hash") != "" {
		hash = row.String("password_hash")
	}
	if !identity.VerifyPassword(hash, password) || !found {
		log.Warn("Invalid credentials", zap.String("username", username))
		return "", false
	}
	return row.String("organization_id"), true
}

func (v *IdentityVerifier) decoy() string {
	v.decoyOnce.Do(func() {
		hash, err := identity.HashPassword(uuid.NewString(), v.passwordCost)
		if err != nil {
			v.logger.Error("Failed to build decoy password hash", zap.Error(err))
			return
		}
		v.decoyHash = hash
	})
	return v.decoyHash
}

// CreateUser stores a new account with a bcrypt hash of password.
func (v *IdentityVerifier) CreateUser(ctx context.Context, username, password, orgID string) error {
	log := logger.Enrich(ctx, v.logger)

	user, err := identity.NewUser(username, password, orgID, v.passwordCost)
	if err != nil {
		return err
	}

	res, err := v.db.Execute(ctx, selectUserIDSQL, []any{user.Username}, false)
	if err != nil {
		log.Error("Failed to check username", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("create user: %w", err)
	}
	if _, exists := res.First(); exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	_, err = v.db.Execute(ctx, insertUserSQL, []any{user.Username, user.PasswordHash, user.OrganizationID, time.Now().UTC()}, true)
	if err != nil {
		log.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("create user: %w", err)
	}

	log.Info("User created", zap.String("username", user.Username), zap.String("organization_id", user.OrganizationID))
	return nil
}
