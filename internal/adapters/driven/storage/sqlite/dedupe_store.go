package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// ==================== Idempotency Store ====================

// idempotencyStore implements driven.IdempotencyStore.
type idempotencyStore struct {
	store *Store
}

var _ driven.IdempotencyStore = (*idempotencyStore)(nil)

// Begin checks the key and claims it when unseen. The whole
// check-then-claim runs inside one transaction so that of two concurrent
// requests with the same unseen key exactly one observes OutcomeFresh.
func (s *idempotencyStore) Begin(ctx context.Context, key, payloadHash string) (driven.IdempotencyCheck, error) {
	var check driven.IdempotencyCheck

	now := s.store.now()
	cutoff := now.Add(-s.store.retention)

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return check, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Expired records behave as unseen.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM idempotency_keys WHERE key = ? AND created_at <= ?", key, cutoff,
	); err != nil {
		return check, fmt.Errorf("expiring idempotency record: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, payload_hash, pending, created_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, payloadHash, now)
	if err != nil {
		return check, fmt.Errorf("claiming idempotency key: %w", err)
	}

	claimed, err := res.RowsAffected()
	if err != nil {
		return check, fmt.Errorf("checking claim result: %w", err)
	}

	if claimed == 1 {
		check.Outcome = driven.OutcomeFresh
		if err := tx.Commit(); err != nil {
			return check, fmt.Errorf("committing claim: %w", err)
		}
		return check, nil
	}

	var storedHash string
	var response []byte
	var pending bool
	row := tx.QueryRowContext(ctx,
		"SELECT payload_hash, response, pending FROM idempotency_keys WHERE key = ?", key)
	if err := row.Scan(&storedHash, &response, &pending); err != nil {
		return check, fmt.Errorf("reading idempotency record: %w", err)
	}

	switch {
	case storedHash != payloadHash:
		// A different payload is a conflict even while the holder is
		// still pending.
		check.Outcome = driven.OutcomeConflict
	case pending:
		check.Outcome = driven.OutcomeInFlight
	default:
		check.Outcome = driven.OutcomeReplay
		check.Response = response
	}

	if err := tx.Commit(); err != nil {
		return check, fmt.Errorf("committing check: %w", err)
	}
	return check, nil
}

// Complete stores the response for a key claimed via Begin.
func (s *idempotencyStore) Complete(ctx context.Context, key string, response []byte) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE idempotency_keys SET response = ?, pending = 0 WHERE key = ? AND pending = 1",
		response, key)
	if err != nil {
		return fmt.Errorf("completing idempotency record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking completion result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("key %q has no pending claim: %w", key, domain.ErrNotFound)
	}
	return nil
}

// Abort releases a key claimed via Begin, returning it to unseen.
func (s *idempotencyStore) Abort(ctx context.Context, key string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM idempotency_keys WHERE key = ? AND pending = 1", key)
	if err != nil {
		return fmt.Errorf("aborting idempotency record: %w", err)
	}
	return nil
}

// ==================== Query Cache ====================

// queryCache implements driven.QueryCache with lazy expiry.
type queryCache struct {
	store *Store
}

var _ driven.QueryCache = (*queryCache)(nil)

// Get returns the cached payload for a key, treating expired rows as
// absent and purging them on the way out.
func (s *queryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	var expiresAt sql.NullTime

	row := s.store.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM ask_cache WHERE key = ?", key)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		return nil, false
	}

	if !expiresAt.Valid || !s.store.now().Before(expiresAt.Time) {
		_, _ = s.store.db.ExecContext(ctx, "DELETE FROM ask_cache WHERE key = ?", key)
		return nil, false
	}
	return payload, true
}

// Put stores a payload under a key with the given TTL.
func (s *queryCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expiresAt := s.store.now().Add(ttl)

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ask_cache (key, payload, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at
	`, key, payload, expiresAt)
	if err != nil {
		return fmt.Errorf("caching query result: %w", err)
	}
	return nil
}
