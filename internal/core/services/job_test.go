package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
)

func newJobService() (*JobService, *memory.JobStore) {
	store := memory.NewJobStore()
	return NewJobService(store, memory.NewIdempotencyStore()), store
}

func TestJob_CreateExtractsRequirements(t *testing.T) {
	service, _ := newJobService()

	job, err := service.Create(context.Background(), driving.CreateJobRequest{
		IdempotencyKey: "job-1",
		Title:          "Backend Engineer",
		Description:    "We need Python, Docker and PostgreSQL experience.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Contains(t, job.Requirements, "Docker")
	assert.Contains(t, job.Requirements, "Python")
	assert.Contains(t, job.Requirements, "Postgresql")
	assert.False(t, job.CreatedAt.IsZero())
}

func TestJob_CreateReplay(t *testing.T) {
	service, store := newJobService()
	ctx := context.Background()

	req := driving.CreateJobRequest{
		IdempotencyKey: "job-1",
		Title:          "SRE",
		Description:    "Kubernetes and Terraform.",
	}

	first, err := service.Create(ctx, req)
	require.NoError(t, err)
	second, err := service.Create(ctx, req)
	require.NoError(t, err)

	// The replay returns the original job; extraction never re-runs.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Requirements, second.Requirements)

	all, err := store.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestJob_CreateConflict(t *testing.T) {
	service, _ := newJobService()
	ctx := context.Background()

	_, err := service.Create(ctx, driving.CreateJobRequest{
		IdempotencyKey: "job-1",
		Title:          "SRE",
		Description:    "Kubernetes.",
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, driving.CreateJobRequest{
		IdempotencyKey: "job-1",
		Title:          "SRE",
		Description:    "Terraform.",
	})
	require.ErrorIs(t, err, domain.ErrIdempotencyConflict)
}

func TestJob_CreateValidation(t *testing.T) {
	service, _ := newJobService()
	ctx := context.Background()

	_, err := service.Create(ctx, driving.CreateJobRequest{Title: "", Description: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Create(ctx, driving.CreateJobRequest{Title: "x", Description: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestJob_GetUnknown(t *testing.T) {
	service, _ := newJobService()

	_, err := service.Get(context.Background(), "job_missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
