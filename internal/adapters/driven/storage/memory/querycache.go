package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// Ensure QueryCache implements the interface.
var _ driven.QueryCache = (*QueryCache)(nil)

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// QueryCache is an in-memory implementation of driven.QueryCache with
// lazy expiry: stale entries are treated as misses and purged on access.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// CacheOption configures the cache.
type CacheOption func(*QueryCache)

// WithCacheClock overrides the time source. Useful for testing expiry.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *QueryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewQueryCache creates a new in-memory query cache.
func NewQueryCache(opts ...CacheOption) *QueryCache {
	c := &QueryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached payload for a key, or ok=false on miss/expiry.
func (c *QueryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		// Expired: purge lazily and report a miss.
		c.mu.Lock()
		if e, still := c.entries[key]; still && e.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, true
}

// Put stores a payload under a key with the given TTL.
func (c *QueryCache) Put(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		payload:   stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}
