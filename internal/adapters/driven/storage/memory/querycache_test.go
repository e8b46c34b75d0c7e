package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_PutGet(t *testing.T) {
	cache := NewQueryCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key-1", []byte("payload"), time.Hour))

	got, ok := cache.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	_, ok = cache.Get(ctx, "key-2")
	assert.False(t, ok)
}

func TestQueryCache_LazyExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewQueryCache(WithCacheClock(func() time.Time { return current }))
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key", []byte("v"), time.Hour))

	current = current.Add(59 * time.Minute)
	_, ok := cache.Get(ctx, "key")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "key")
	assert.False(t, ok)

	// A fresh Put after expiry works normally.
	require.NoError(t, cache.Put(ctx, "key", []byte("v2"), time.Hour))
	got, ok := cache.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), got)
}

func TestQueryCache_CallerCannotMutateStored(t *testing.T) {
	cache := NewQueryCache()
	ctx := context.Background()

	payload := []byte("immutable")
	require.NoError(t, cache.Put(ctx, "key", payload, time.Hour))
	payload[0] = 'X'

	got, ok := cache.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("immutable"), got)

	// Mutating the returned slice must not poison later hits.
	got[0] = 'Y'
	again, ok := cache.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("immutable"), again)
}

func TestQueryCache_ConcurrentDistinctKeys(t *testing.T) {
	cache := NewQueryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key-" + string(rune('a'+n%26))
			_ = cache.Put(ctx, key, []byte{byte(n)}, time.Hour)
			_, _ = cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()
}
