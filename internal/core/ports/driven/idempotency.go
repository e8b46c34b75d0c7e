package driven

import "context"

// IdempotencyOutcome is the result of checking a caller-supplied key.
type IdempotencyOutcome int

const (
	// OutcomeFresh means no record exists and this caller has claimed the
	// key. The caller must follow up with Complete or Abort.
	OutcomeFresh IdempotencyOutcome = iota

	// OutcomeReplay means a record exists with a matching payload hash.
	// The caller must return the stored response verbatim and perform no
	// side effects.
	OutcomeReplay

	// OutcomeConflict means a record exists with a different payload hash
	// for the same key. The caller must fail the request distinctly.
	OutcomeConflict

	// OutcomeInFlight means another request holds a fresh claim on the key
	// but has not stored its response yet. Retryable.
	OutcomeInFlight
)

// IdempotencyCheck is the result of Begin.
type IdempotencyCheck struct {
	// Outcome classifies the key state.
	Outcome IdempotencyOutcome

	// Response is the stored response body, set only for OutcomeReplay.
	Response []byte
}

// IdempotencyStore deduplicates create operations by caller-supplied key
// plus payload hash.
//
// Begin and Complete together form an atomic check-then-store: of two
// concurrent requests with the same unseen key, exactly one observes
// OutcomeFresh. Records expire lazily after a retention window, after
// which the key behaves as unseen again.
type IdempotencyStore interface {
	// Begin checks the key and claims it when unseen.
	Begin(ctx context.Context, key, payloadHash string) (IdempotencyCheck, error)

	// Complete stores the response for a key claimed via Begin.
	Complete(ctx context.Context, key string, response []byte) error

	// Abort releases a key claimed via Begin without storing a response,
	// returning the key to the unseen state.
	Abort(ctx context.Context, key string) error
}
