package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIdempotencyConflict indicates an idempotency key was reused with a
	// different payload. The caller must retry with a new key, or with the
	// original payload.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different payload")

	// ErrIdempotencyInFlight indicates the first request for an idempotency
	// key has not finished storing its response yet. Retryable.
	ErrIdempotencyInFlight = errors.New("idempotency key request in flight")

	// ErrDimensionMismatch indicates a vector of the wrong dimensionality
	// reached the index. Fatal for that operation only; the index stays intact.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrResumeNotReady indicates an operation requires a completed resume
	// but the resume has not finished processing.
	ErrResumeNotReady = errors.New("resume not ready")
)
