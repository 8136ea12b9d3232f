package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSessionCache caches validated sessions in Redis so repeated requests
// with the same session key skip the sessions table.
type RedisSessionCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionCache connects to Redis and verifies the connection.
func NewRedisSessionCache(cfg RedisConfig) (*RedisSessionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for session cache: %w", err)
	}

	return NewRedisSessionCacheWithClient(client), nil
}

// NewRedisSessionCacheWithClient creates a session cache on an existing client
func NewRedisSessionCacheWithClient(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{
		client:    client,
		keyPrefix: sessionKeyPrefix,
	}
}

func (c *RedisSessionCache) key(sessionKey string) string {
	return c.keyPrefix + sessionKey
}

// Get returns the organization cached for sessionKey.
func (c *RedisSessionCache) Get(ctx context.Context, sessionKey string) (string, bool, error) {
	org, err := c.client.Get(ctx, c.key(sessionKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session cache: %w", err)
	}
	return org, true, nil
}

// Set caches the session's organization for ttl.
func (c *RedisSessionCache) Set(ctx context.Context, sessionKey, organizationID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(sessionKey), organizationID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session cache: %w", err)
	}
	return nil
}

// Delete evicts sessionKey.
func (c *RedisSessionCache) Delete(ctx context.Context, sessionKey string) error {
	if err := c.client.Del(ctx, c.key(sessionKey)).Err(); err != nil {
		return fmt.Errorf("failed to evict session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSessionCache) Close() error {
	return c.client.Close()
}
