package driving

import (
	"context"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// RegisterRequest registers one resume upload.
type RegisterRequest struct {
	// IdempotencyKey is the caller-supplied deduplication token.
	IdempotencyKey string

	// OwnerID references the uploading principal. May be empty.
	OwnerID string

	// Filename is the original upload filename.
	Filename string

	// Content is the uploaded resume bytes (already-extracted plain text
	// or the raw file, depending on deployment; only its hash matters here).
	Content []byte
}

// IngestService manages the resume write path: registration, processing
// (chunk, embed, index) and deletion.
type IngestService interface {
	// Register accepts an upload, guarded by the idempotency key. A replay
	// returns the originally stored resume without side effects; key reuse
	// with different content returns domain.ErrIdempotencyConflict.
	Register(ctx context.Context, req RegisterRequest) (*domain.Resume, error)

	// Process runs the ingestion pipeline for a pending resume: extracted
	// pages are chunked, embedded and indexed, then the resume transitions
	// to completed (or failed).
	Process(ctx context.Context, resumeID string) error

	// Delete removes a resume, its chunks and its index vectors.
	Delete(ctx context.Context, resumeID string) error

	// Get retrieves a resume by ID.
	Get(ctx context.Context, resumeID string) (*domain.Resume, error)

	// List returns all resumes, optionally filtered by status.
	List(ctx context.Context, status domain.ResumeStatus) ([]domain.Resume, error)
}
