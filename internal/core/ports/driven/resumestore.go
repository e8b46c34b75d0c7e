package driven

import (
	"context"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// ResumeStore persists resumes and their chunks.
type ResumeStore interface {
	// SaveResume stores or updates a resume.
	SaveResume(ctx context.Context, resume *domain.Resume) error

	// GetResume retrieves a resume by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetResume(ctx context.Context, id string) (*domain.Resume, error)

	// ListResumes returns all resumes, optionally filtered by status.
	// An empty status returns every resume.
	ListResumes(ctx context.Context, status domain.ResumeStatus) ([]domain.Resume, error)

	// SaveChunks stores the full chunk set for a resume, replacing any
	// previous chunks.
	SaveChunks(ctx context.Context, resumeID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a resume in insertion order.
	GetChunks(ctx context.Context, resumeID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// DeleteResume removes a resume and cascades to its chunks.
	DeleteResume(ctx context.Context, id string) error
}

// JobStore persists jobs.
type JobStore interface {
	// SaveJob stores a job.
	SaveJob(ctx context.Context, job *domain.Job) error

	// GetJob retrieves a job by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// ListJobs returns all jobs.
	ListJobs(ctx context.Context) ([]domain.Job, error)
}
