package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/domain/identity"
	"github.com/squizz-sync/backend/internal/domain/shared"
	"github.com/squizz-sync/backend/internal/infrastructure/logger"
	"github.com/squizz-sync/backend/internal/infrastructure/persistence"
)

const (
	selectUserIDSQL     = "SELECT id FROM users WHERE username = ?"
	insertSessionSQL    = "INSERT INTO sessions (session_key, user_id, organization_id, created_at) VALUES (?, ?, ?, ?)"
	selectSessionSQL    = "SELECT id, session_key, user_id, organization_id, created_at FROM sessions WHERE session_key = ?"
	deleteSessionSQL    = "DELETE FROM sessions WHERE session_key = ?"
	selectCredentialSQL = "SELECT id, password_hash, organization_id FROM users WHERE username = ?"
	insertUserSQL       = "INSERT INTO users (username, password_hash, organization_id, created_at) VALUES (?, ?, ?, ?)"
)

// SessionCache remembers recently validated sessions so hot paths skip the
// database. Implementations must be safe for concurrent use.
type SessionCache interface {
	Get(ctx context.Context, sessionKey string) (organizationID string, found bool, err error)
	Set(ctx context.Context, sessionKey, organizationID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionKey string) error
}

// SessionLedgerConfig controls session lifetime.
type SessionLedgerConfig struct {
	// TTL is how long a stored session stays valid. Zero keeps sessions
	// valid until they are deleted.
	TTL time.Duration
	// CacheTTL bounds how long a positive validation is cached.
	CacheTTL time.Duration
}

// SessionLedger records platform sessions and answers whether a session key
// is valid for an organization.
type SessionLedger struct {
	db     persistence.Executor
	cache  SessionCache
	cfg    SessionLedgerConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionLedger creates a new SessionLedger. cache may be nil.
func NewSessionLedger(db persistence.Executor, cache SessionCache, cfg SessionLedgerConfig, logger *zap.Logger) *SessionLedger {
	return &SessionLedger{
		db:     db,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// StoreSession records sessionKey for orgID. The session is linked to the
// local account of username when one exists.
func (l *SessionLedger) StoreSession(ctx context.Context, username, sessionKey, orgID string) error {
	log := logger.Enrich(ctx, l.logger)

	var userID any
	res, err := l.db.Execute(ctx, selectUserIDSQL, []any{username}, false)
	switch {
	case err != nil:
		log.Warn("User lookup failed while storing session", zap.String("username", username), zap.Error(err))
	default:
		if row, found := res.First(); found {
			if id, ok := row.Int64("id"); ok {
				userID = id
			}
		} else {
			log.Info("Storing session without local user", zap.String("username", username))
		}
	}

	_, err = l.db.Execute(ctx, insertSessionSQL, []any{sessionKey, userID, orgID, l.now().UTC()}, true)
	if err != nil {
		log.Error("Failed to store session", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("store session: %w", err)
	}

	log.Info("Session stored", zap.String("username", username), zap.String("organization_id", orgID))
	return nil
}

// ValidateSession reports whether sessionKey was stored for orgID and has not
// expired. A missing session is not an error.
func (l *SessionLedger) ValidateSession(ctx context.Context, sessionKey, orgID string) (bool, error) {
	if sessionKey == "" || orgID == "" {
		return false, nil
	}
	log := logger.Enrich(ctx, l.logger)

	if l.cache != nil {
		cachedOrg, found, err := l.cache.Get(ctx, sessionKey)
		if err != nil {
			log.Warn("Session cache lookup failed", zap.Error(err))
		} else if found && cachedOrg == orgID {
			return true, nil
		}
	}

	session, err := l.FindSession(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrSessionInvalid) {
			return false, nil
		}
		return false, err
	}
	if !session.BelongsTo(orgID) {
		return false, nil
	}

	l.remember(ctx, log, session)
	return true, nil
}

// FindSession returns the stored session for sessionKey. It returns
// shared.ErrNotFound for unknown keys and shared.ErrSessionInvalid for expired
// ones.
func (l *SessionLedger) FindSession(ctx context.Context, sessionKey string) (*identity.Session, error) {
	res, err := l.db.Execute(ctx, selectSessionSQL, []any{sessionKey}, false)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	row, found := res.First()
	if !found {
		return nil, shared.ErrNotFound
	}

	session := &identity.Session{
		SessionKey:     row.String("session_key"),
		OrganizationID: row.String("organization_id"),
		CreatedAt:      row.Time("created_at"),
	}
	session.ID, _ = row.Int64("id")
	if id, ok := row.Int64("user_id"); ok {
		session.UserID = &id
	}

	if session.IsExpired(l.now(), l.cfg.TTL) {
		return nil, shared.ErrSessionInvalid
	}
	return session, nil
}

// DeleteSession removes sessionKey. Deleting an unknown key succeeds.
func (l *SessionLedger) DeleteSession(ctx context.Context, sessionKey string) error {
	log := logger.Enrich(ctx, l.logger)

	res, err := l.db.Execute(ctx, deleteSessionSQL, []any{sessionKey}, true)
	if err != nil {
		log.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("delete session: %w", err)
	}
	if l.cache != nil {
		if err := l.cache.Delete(ctx, sessionKey); err != nil {
			log.Warn("Failed to evict session from cache", zap.Error(err))
		}
	}

	log.Info("Session deleted", zap.Int64("rows", res.RowsAffected))
	return nil
}

// remember caches a validated session, never past its expiry.
func (l *SessionLedger) remember(ctx context.Context, log *zap.Logger, session *identity.Session) {
	if l.cache == nil || l.cfg.CacheTTL <= 0 {
		return
	}
	ttl := l.cfg.CacheTTL
	if expires := session.ExpiresAt(l.cfg.TTL); !expires.IsZero() {
		if remaining := expires.Sub(l.now()); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return
	}
	if err := l.cache.Set(ctx, session.SessionKey, session.OrganizationID, ttl); err != nil {
		log.Warn("Failed to cache session", zap.Error(err))
	}
}
