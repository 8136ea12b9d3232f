package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/squizz-sync/backend/internal/infrastructure/config"
)

// SessionCache is the contract both cache implementations satisfy.
type SessionCache interface {
	Get(ctx context.Context, sessionKey string) (string, bool, error)
	Set(ctx context.Context, sessionKey, organizationID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionKey string) error
	Close() error
}

// SessionCacheFactory creates session caches based on configuration
type SessionCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	cleanupInterval       time.Duration
}

// SessionCacheFactoryOption is a functional option for configuring the factory
type SessionCacheFactoryOption func(*SessionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionCacheFactoryOption {
	return func(f *SessionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) SessionCacheFactoryOption {
	return func(f *SessionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSessionCacheFactory creates a new factory
func NewSessionCacheFactory(cfg config.RedisConfig, opts ...SessionCacheFactoryOption) *SessionCacheFactory {
	f := &SessionCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		cleanupInterval:       5 * time.Minute,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis cache, or the in-memory cache when Redis is
// unavailable and fallback is allowed.
func (f *SessionCacheFactory) CreateStore() (SessionCache, error) {
	store, err := NewRedisSessionCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis session cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for session cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session cache. "+
		"Logouts will not propagate between instances until cached entries expire.",
		zap.Error(err),
	)
	return NewInMemorySessionCache(f.cleanupInterval), nil
}
