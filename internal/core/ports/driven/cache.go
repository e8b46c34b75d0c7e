package driven

import (
	"context"
	"time"
)

// QueryCache memoizes ask-query results for a bounded time window.
//
// Entries older than their TTL are treated as absent on the next Get,
// whether or not they are physically purged (lazy expiry). Reads and
// writes for distinct keys must not block one another.
type QueryCache interface {
	// Get returns the cached payload for a canonical key, or ok=false on
	// a miss or an expired entry.
	Get(ctx context.Context, key string) (payload []byte, ok bool)

	// Put stores a payload under a canonical key with the given TTL.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
