// Package memory provides in-memory implementations of the driven storage
// ports. They are the default for single-process runs and for tests; the
// sqlite package provides the durable equivalents.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// Ensure ResumeStore implements the interface.
var _ driven.ResumeStore = (*ResumeStore)(nil)

// ResumeStore is an in-memory implementation of driven.ResumeStore.
type ResumeStore struct {
	mu      sync.RWMutex
	resumes map[string]domain.Resume
	chunks  map[string][]domain.Chunk
}

// NewResumeStore creates a new in-memory resume store.
func NewResumeStore() *ResumeStore {
	return &ResumeStore{
		resumes: make(map[string]domain.Resume),
		chunks:  make(map[string][]domain.Chunk),
	}
}

// SaveResume stores or updates a resume.
func (s *ResumeStore) SaveResume(_ context.Context, resume *domain.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes[resume.ID] = *resume
	return nil
}

// GetResume retrieves a resume by ID.
func (s *ResumeStore) GetResume(_ context.Context, id string) (*domain.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resume, ok := s.resumes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &resume, nil
}

// ListResumes returns all resumes ordered by upload time then ID,
// optionally filtered by status.
func (s *ResumeStore) ListResumes(_ context.Context, status domain.ResumeStatus) ([]domain.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Resume
	for id := range s.resumes {
		resume := s.resumes[id]
		if status == "" || resume.Status == status {
			result = append(result, resume)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.Before(result[j].UploadedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// SaveChunks stores the full chunk set for a resume.
func (s *ResumeStore) SaveChunks(_ context.Context, resumeID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)
	s.chunks[resumeID] = stored
	return nil
}

// GetChunks retrieves all chunks for a resume in insertion order.
func (s *ResumeStore) GetChunks(_ context.Context, resumeID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[resumeID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Chunk, len(chunks))
	copy(result, chunks)
	return result, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *ResumeStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// DeleteResume removes a resume and cascades to its chunks.
func (s *ResumeStore) DeleteResume(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resumes, id)
	delete(s.chunks, id)
	return nil
}
