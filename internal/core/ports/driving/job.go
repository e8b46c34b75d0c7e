package driving

import (
	"context"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// CreateJobRequest creates one job.
type CreateJobRequest struct {
	// IdempotencyKey is the caller-supplied deduplication token.
	IdempotencyKey string

	// OwnerID references the creating principal. May be empty.
	OwnerID string

	// Title is the job title.
	Title string

	// Description is the free-text job description requirements are
	// extracted from.
	Description string
}

// JobService manages jobs.
type JobService interface {
	// Create creates a job, guarded by the idempotency key. Requirement
	// keywords are extracted from the description exactly once.
	Create(ctx context.Context, req CreateJobRequest) (*domain.Job, error)

	// Get retrieves a job by ID.
	Get(ctx context.Context, jobID string) (*domain.Job, error)

	// List returns all jobs.
	List(ctx context.Context) ([]domain.Job, error)
}

// MatchService matches job requirements against indexed resumes.
type MatchService interface {
	// Match scans completed resumes for evidence of each job requirement
	// and returns the topN candidates with evidence and missing
	// requirements, ranked deterministically.
	Match(ctx context.Context, jobID string, topN int) (*domain.MatchResult, error)
}
