package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// payloadHash computes the canonical hash of a request payload.
// Payloads are hashed as JSON with sorted keys (encoding/json sorts map
// keys), so logically identical requests always hash identically.
func payloadHash(payload map[string]any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// idempotencyGuard wraps create operations with check-then-store
// deduplication. The zero key disables the guard, for callers that manage
// their own deduplication.
type idempotencyGuard struct {
	store driven.IdempotencyStore
}

// run executes fn at most once per (key, payload). On replay the stored
// response is returned verbatim and fn is not invoked.
func (g idempotencyGuard) run(
	ctx context.Context, key string, payload map[string]any, fn func() ([]byte, error),
) (response []byte, replayed bool, err error) {
	if g.store == nil || key == "" {
		logger.Debug("Idempotency guard disabled for this request")
		response, err = fn()
		return response, false, err
	}

	hash, err := payloadHash(payload)
	if err != nil {
		return nil, false, err
	}

	check, err := g.store.Begin(ctx, key, hash)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency check: %w", err)
	}

	switch check.Outcome {
	case driven.OutcomeReplay:
		logger.Audit("create", "idempotency", "replay", "key", key)
		return check.Response, true, nil

	case driven.OutcomeConflict:
		logger.Audit("create", "idempotency", "conflict", "key", key)
		return nil, false, fmt.Errorf("key %q: %w", key, domain.ErrIdempotencyConflict)

	case driven.OutcomeInFlight:
		logger.Audit("create", "idempotency", "in_flight", "key", key)
		return nil, false, fmt.Errorf("key %q: %w", key, domain.ErrIdempotencyInFlight)
	}

	// Fresh: the key is claimed. Execute, then store or release.
	response, err = fn()
	if err != nil {
		if abortErr := g.store.Abort(ctx, key); abortErr != nil {
			logger.Warn("Idempotency abort failed for key %q: %v", key, abortErr)
		}
		return nil, false, err
	}

	if err := g.store.Complete(ctx, key, response); err != nil {
		return nil, false, fmt.Errorf("idempotency store: %w", err)
	}
	logger.Audit("create", "idempotency", "fresh", "key", key)
	return response, false, nil
}
