package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/squizz-sync/backend/internal/application/identity"
	"github.com/squizz-sync/backend/internal/infrastructure/config"
)

var (
	_ identity.SessionCache = (*RedisSessionCache)(nil)
	_ identity.SessionCache = (*InMemorySessionCache)(nil)
	_ SessionCache          = (*RedisSessionCache)(nil)
	_ SessionCache          = (*InMemorySessionCache)(nil)
)

func TestInMemorySessionCache(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c := NewInMemorySessionCache(0)
	defer c.Close()
	c.now = func() time.Time { return clock }

	t.Run("miss", func(t *testing.T) {
		_, found, err := c.Get(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("hit until expiry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "s1", "org-1", time.Minute))

		org, found, err := c.Get(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "org-1", org)

		clock = clock.Add(time.Minute)
		_, found, err = c.Get(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("non-positive ttl is not cached", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "s2", "org-1", 0))
		_, found, _ := c.Get(ctx, "s2")
		assert.False(t, found)
	})

	t.Run("delete evicts", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "s3", "org-1", time.Hour))
		require.NoError(t, c.Delete(ctx, "s3"))
		_, found, _ := c.Get(ctx, "s3")
		assert.False(t, found)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "s4", "org-1", time.Second))
		require.NoError(t, c.Set(ctx, "s5", "org-1", time.Hour))
		clock = clock.Add(2 * time.Second)

		c.cleanup()

		_, found, _ := c.Get(ctx, "s5")
		assert.True(t, found)
		c.mu.RLock()
		_, stale := c.entries["s4"]
		c.mu.RUnlock()
		assert.False(t, stale)
	})
}

func TestInMemorySessionCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemorySessionCache(time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestRedisSessionCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisSessionCacheWithClient(client)
	defer c.Close()

	ctx := context.Background()
	_, _, err := c.Get(ctx, "s1")
	assert.ErrorContains(t, err, "failed to read session cache")
	assert.ErrorContains(t, c.Set(ctx, "s1", "org", time.Minute), "failed to write session cache")
	assert.ErrorContains(t, c.Delete(ctx, "s1"), "failed to evict session")
	assert.Equal(t, "session:s1", c.key("s1"))
}

func TestSessionCacheFactory_CreateStore(t *testing.T) {
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("falls back to memory", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		store, err := NewSessionCacheFactory(unreachable, WithLogger(zap.New(core))).CreateStore()
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemorySessionCache{}, store)
		assert.Equal(t, 1, logs.FilterMessageSnippet("falling back to in-memory").Len())
	})

	t.Run("fallback disabled", func(t *testing.T) {
		_, err := NewSessionCacheFactory(unreachable, WithInMemoryFallback(false)).CreateStore()
		assert.ErrorContains(t, err, "Redis required for session cache")
	})
}
