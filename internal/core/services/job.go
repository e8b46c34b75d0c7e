package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
	"github.com/custodia-labs/resumatch-cli/internal/requirements"
)

// Ensure JobService implements the interface.
var _ driving.JobService = (*JobService)(nil)

// JobService manages jobs.
type JobService struct {
	jobStore driven.JobStore
	guard    idempotencyGuard
}

// NewJobService creates a new job service.
func NewJobService(jobStore driven.JobStore, idempotencyStore driven.IdempotencyStore) *JobService {
	return &JobService{
		jobStore: jobStore,
		guard:    idempotencyGuard{store: idempotencyStore},
	}
}

// Create creates a job, guarded by the idempotency key. Requirement
// keywords are extracted from the description exactly once, here; they are
// never recomputed for an existing job.
func (s *JobService) Create(ctx context.Context, req driving.CreateJobRequest) (*domain.Job, error) {
	logger.Section("Job Creation")

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description: %w", domain.ErrInvalidInput)
	}

	payload := map[string]any{
		"title":       req.Title,
		"description": req.Description,
	}

	response, replayed, err := s.guard.run(ctx, req.IdempotencyKey, payload, func() ([]byte, error) {
		job := &domain.Job{
			ID:           "job_" + uuid.New().String(),
			OwnerID:      req.OwnerID,
			Title:        req.Title,
			Description:  req.Description,
			Requirements: requirements.Extract(req.Description),
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.jobStore.SaveJob(ctx, job); err != nil {
			return nil, fmt.Errorf("save job: %w", err)
		}
		logger.Debug("Extracted %d requirements for job %s", len(job.Requirements), job.ID)
		return json.Marshal(job)
	})
	if err != nil {
		return nil, err
	}

	var job domain.Job
	if err := json.Unmarshal(response, &job); err != nil {
		return nil, fmt.Errorf("decode stored job: %w", err)
	}
	if replayed {
		logger.Info("Job creation replayed for %q", req.Title)
	}
	return &job, nil
}

// Get retrieves a job by ID.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.jobStore.GetJob(ctx, jobID)
}

// List returns all jobs.
func (s *JobService) List(ctx context.Context) ([]domain.Job, error) {
	return s.jobStore.ListJobs(ctx)
}
