package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// DefaultRetention is how long idempotency records are honoured.
const DefaultRetention = 24 * time.Hour

// Ensure IdempotencyStore implements the interface.
var _ driven.IdempotencyStore = (*IdempotencyStore)(nil)

type idempotencyRecord struct {
	payloadHash string
	response    []byte
	createdAt   time.Time

	// pending is true between Begin and Complete. A pending record blocks
	// concurrent claims without replaying an unfinished response.
	pending bool
}

// IdempotencyStore is an in-memory implementation of
// driven.IdempotencyStore. Expiry is enforced lazily at Begin time; no
// background sweeper runs.
type IdempotencyStore struct {
	mu        sync.Mutex
	records   map[string]idempotencyRecord
	retention time.Duration
	now       func() time.Time
}

// IdempotencyOption configures the store.
type IdempotencyOption func(*IdempotencyStore)

// WithRetention overrides the record retention window.
func WithRetention(d time.Duration) IdempotencyOption {
	return func(s *IdempotencyStore) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithClock overrides the time source. Useful for testing expiry.
func WithClock(now func() time.Time) IdempotencyOption {
	return func(s *IdempotencyStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewIdempotencyStore creates a new in-memory idempotency store.
func NewIdempotencyStore(opts ...IdempotencyOption) *IdempotencyStore {
	s := &IdempotencyStore{
		records:   make(map[string]idempotencyRecord),
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin checks the key and claims it when unseen. The check and the claim
// happen under one lock, so of two concurrent requests with the same
// unseen key exactly one observes OutcomeFresh.
func (s *IdempotencyStore) Begin(_ context.Context, key, payloadHash string) (driven.IdempotencyCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if ok && s.now().Sub(rec.createdAt) >= s.retention {
		// Expired records behave as unseen.
		delete(s.records, key)
		ok = false
	}

	if ok {
		if rec.payloadHash != payloadHash {
			return driven.IdempotencyCheck{Outcome: driven.OutcomeConflict}, nil
		}
		if rec.pending {
			return driven.IdempotencyCheck{Outcome: driven.OutcomeInFlight}, nil
		}
		response := make([]byte, len(rec.response))
		copy(response, rec.response)
		return driven.IdempotencyCheck{Outcome: driven.OutcomeReplay, Response: response}, nil
	}

	s.records[key] = idempotencyRecord{
		payloadHash: payloadHash,
		createdAt:   s.now(),
		pending:     true,
	}
	return driven.IdempotencyCheck{Outcome: driven.OutcomeFresh}, nil
}

// Complete stores the response for a key claimed via Begin.
func (s *IdempotencyStore) Complete(_ context.Context, key string, response []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || !rec.pending {
		// Nothing pending; nothing to complete.
		return nil
	}
	rec.response = make([]byte, len(response))
	copy(rec.response, response)
	rec.pending = false
	s.records[key] = rec
	return nil
}

// Abort releases a key claimed via Begin without storing a response.
func (s *IdempotencyStore) Abort(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key]; ok && rec.pending {
		delete(s.records, key)
	}
	return nil
}
