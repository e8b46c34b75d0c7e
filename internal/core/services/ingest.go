package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/resumatch-cli/internal/chunker"
	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// embedConcurrency bounds parallel chunk embedding during processing.
const embedConcurrency = 4

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService manages the resume write path: registration, the
// chunk/embed/index pipeline and deletion.
type IngestService struct {
	resumeStore driven.ResumeStore
	extractor   driven.PageExtractor
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	guard       idempotencyGuard
	chunker     *chunker.Chunker

	// procMu serializes processing per resume so concurrent Process calls
	// for the same resume never interleave partial chunk sets. Writers for
	// different resumes proceed without coordination.
	mu     sync.Mutex
	procMu map[string]*sync.Mutex
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	resumeStore driven.ResumeStore,
	extractor driven.PageExtractor,
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	idempotencyStore driven.IdempotencyStore,
	chk *chunker.Chunker,
) *IngestService {
	if chk == nil {
		chk = chunker.New()
	}
	return &IngestService{
		resumeStore: resumeStore,
		extractor:   extractor,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		guard:       idempotencyGuard{store: idempotencyStore},
		chunker:     chk,
		procMu:      make(map[string]*sync.Mutex),
	}
}

// Register accepts an upload, guarded by the idempotency key.
func (s *IngestService) Register(ctx context.Context, req driving.RegisterRequest) (*domain.Resume, error) {
	logger.Section("Resume Registration")

	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("filename: %w", domain.ErrInvalidInput)
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("content: %w", domain.ErrInvalidInput)
	}

	sum := sha256.Sum256(req.Content)
	contentHash := hex.EncodeToString(sum[:])
	logger.Debug("Upload %q content hash %s", req.Filename, contentHash[:12])

	payload := map[string]any{
		"filename":     req.Filename,
		"content_hash": contentHash,
		"owner_id":     req.OwnerID,
	}

	response, replayed, err := s.guard.run(ctx, req.IdempotencyKey, payload, func() ([]byte, error) {
		resume := &domain.Resume{
			ID:          "res_" + uuid.New().String(),
			OwnerID:     req.OwnerID,
			Filename:    req.Filename,
			Status:      domain.StatusPending,
			ContentHash: contentHash,
			UploadedAt:  time.Now().UTC(),
		}
		if err := s.resumeStore.SaveResume(ctx, resume); err != nil {
			return nil, fmt.Errorf("save resume: %w", err)
		}
		return json.Marshal(resume)
	})
	if err != nil {
		return nil, err
	}

	var resume domain.Resume
	if err := json.Unmarshal(response, &resume); err != nil {
		return nil, fmt.Errorf("decode stored registration: %w", err)
	}
	if replayed {
		logger.Info("Registration replayed for %q", req.Filename)
	}
	return &resume, nil
}

// Process runs the ingestion pipeline for a resume.
func (s *IngestService) Process(ctx context.Context, resumeID string) error {
	unlock := s.lockResume(resumeID)
	defer unlock()

	logger.Section("Resume Processing")
	logger.Debug("Processing %s", resumeID)

	resume, err := s.resumeStore.GetResume(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("get resume %s: %w", resumeID, err)
	}
	if resume.Status == domain.StatusCompleted {
		logger.Debug("Resume %s already completed", resumeID)
		return nil
	}

	resume.Status = domain.StatusProcessing
	if err := s.resumeStore.SaveResume(ctx, resume); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	if err := s.process(ctx, resume); err != nil {
		s.markFailed(ctx, resume)
		logger.Warn("Processing failed for %s: %v", resumeID, err)
		return err
	}

	now := time.Now().UTC()
	resume.Status = domain.StatusCompleted
	resume.ProcessedAt = &now
	if err := s.resumeStore.SaveResume(ctx, resume); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (s *IngestService) process(ctx context.Context, resume *domain.Resume) error {
	pages, err := s.extractor.Pages(ctx, resume.ID)
	if err != nil {
		return fmt.Errorf("extract pages: %w", err)
	}
	logger.Debug("Extracted %d pages", len(pages))

	var chunks []domain.Chunk
	for _, page := range pages {
		chunks = append(chunks, s.chunker.ChunkPage(resume.ID, page)...)
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	// Embedding is CPU-bound and per-chunk independent.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range chunks {
		i := i
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunks[i].Text)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", chunks[i].ID, err)
			}
			chunks[i].Embedding = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.resumeStore.SaveChunks(ctx, resume.ID, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	for _, chunk := range chunks {
		if err := s.vectorIndex.Upsert(ctx, resume.ID, chunk.ID, chunk.Embedding); err != nil {
			// Roll the resume's vectors back out so a partial chunk set
			// never serves queries. Other resumes are unaffected.
			if delErr := s.vectorIndex.DeleteResume(ctx, resume.ID); delErr != nil {
				logger.Warn("Index rollback failed for %s: %v", resume.ID, delErr)
			}
			return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
		}
	}

	logger.Audit("ingest", "resume", resume.ID, "pages", len(pages), "chunks", len(chunks))
	return nil
}

// Delete removes a resume, its chunks and its index vectors.
func (s *IngestService) Delete(ctx context.Context, resumeID string) error {
	unlock := s.lockResume(resumeID)
	defer unlock()

	if _, err := s.resumeStore.GetResume(ctx, resumeID); err != nil {
		return fmt.Errorf("get resume %s: %w", resumeID, err)
	}
	if err := s.vectorIndex.DeleteResume(ctx, resumeID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.resumeStore.DeleteResume(ctx, resumeID); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	logger.Audit("delete", "resume", resumeID)
	return nil
}

// Get retrieves a resume by ID.
func (s *IngestService) Get(ctx context.Context, resumeID string) (*domain.Resume, error) {
	return s.resumeStore.GetResume(ctx, resumeID)
}

// List returns all resumes, optionally filtered by status.
func (s *IngestService) List(ctx context.Context, status domain.ResumeStatus) ([]domain.Resume, error) {
	return s.resumeStore.ListResumes(ctx, status)
}

func (s *IngestService) markFailed(ctx context.Context, resume *domain.Resume) {
	now := time.Now().UTC()
	resume.Status = domain.StatusFailed
	resume.ProcessedAt = &now
	if err := s.resumeStore.SaveResume(ctx, resume); err != nil {
		logger.Warn("Failed to mark %s failed: %v", resume.ID, err)
	}
}

func (s *IngestService) lockResume(resumeID string) func() {
	s.mu.Lock()
	m, ok := s.procMu[resumeID]
	if !ok {
		m = &sync.Mutex{}
		s.procMu[resumeID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
