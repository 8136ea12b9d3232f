package cache

import (
	"context"
	"sync"
	"time"
)

type sessionEntry struct {
	organizationID string
	expiresAt      time.Time
}

// InMemorySessionCache keeps validated sessions in process memory.
// WARNING: entries are not shared across instances, so a logout on one
// instance is only seen by the others after their entry expires.
type InMemorySessionCache struct {
	mu        sync.RWMutex
	entries   map[string]sessionEntry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionCache creates the cache and starts a goroutine that
// drops expired entries every cleanupInterval. A non-positive interval
// disables the sweep; expired entries are still ignored on read.
func NewInMemorySessionCache(cleanupInterval time.Duration) *InMemorySessionCache {
	c := &InMemorySessionCache{
		entries:  make(map[string]sessionEntry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		c.wg.Add(1)
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

func (c *InMemorySessionCache) Get(_ context.Context, sessionKey string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[sessionKey]
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.organizationID, true, nil
}

func (c *InMemorySessionCache) Set(_ context.Context, sessionKey, organizationID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sessionKey] = sessionEntry{
		organizationID: organizationID,
		expiresAt:      c.now().Add(ttl),
	}
	return nil
}

func (c *InMemorySessionCache) Delete(_ context.Context, sessionKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionKey)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemorySessionCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired ones included.
func (c *InMemorySessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemorySessionCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemorySessionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
