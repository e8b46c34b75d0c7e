package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// DefaultAskK is the answer count used when the caller does not specify one.
const DefaultAskK = 5

// DefaultCacheTTL is how long ask results stay cached.
const DefaultCacheTTL = time.Hour

// maxSnippetsPerResume caps snippets carried per answer.
const maxSnippetsPerResume = 3

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers natural-language queries against indexed resumes.
type AskService struct {
	resumeStore driven.ResumeStore
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	cache       driven.QueryCache
	cacheTTL    time.Duration
}

// AskOption configures the ask service.
type AskOption func(*AskService)

// WithCacheTTL overrides the query cache TTL.
func WithCacheTTL(ttl time.Duration) AskOption {
	return func(s *AskService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewAskService creates a new ask service. The cache is optional; when nil
// every query is computed fresh.
func NewAskService(
	resumeStore driven.ResumeStore,
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	cache driven.QueryCache,
	opts ...AskOption,
) *AskService {
	s := &AskService{
		resumeStore: resumeStore,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		cache:       cache,
		cacheTTL:    DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask ranks resumes by similarity to the query.
func (s *AskService) Ask(ctx context.Context, query string, k int) (*domain.AskResult, error) {
	logger.Section("Ask Query")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultAskK
	}
	logger.Debug("Query: %q, k=%d", query, k)

	key := canonicalQueryKey(query, k)

	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var result domain.AskResult
			if err := json.Unmarshal(payload, &result); err == nil {
				result.Cached = true
				logger.Audit("ask", "cached", true, "results", len(result.Answers))
				return &result, nil
			}
			logger.Warn("Discarding undecodable cache entry for key %s", key[:12])
		}
	}

	result, err := s.compute(ctx, query, k)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode result for cache: %w", err)
		}
		if err := s.cache.Put(ctx, key, payload, s.cacheTTL); err != nil {
			// A failed cache write never fails the query.
			logger.Warn("Cache put failed: %v", err)
		}
	}

	logger.Audit("ask", "cached", false, "results", len(result.Answers))
	return result, nil
}

func (s *AskService) compute(ctx context.Context, query string, k int) (*domain.AskResult, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Fetch more chunks than answers so k distinct resumes can surface
	// even when one resume dominates the nearest chunks.
	hits, err := s.vectorIndex.Search(ctx, queryVec, k*5)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search returned %d hits", len(hits))

	type candidate struct {
		rank     domain.RankKey
		filename string
		snippets []domain.AnswerSnippet
	}

	candidates := make(map[string]*candidate)
	order := make([]string, 0)

	for _, hit := range hits {
		cand, ok := candidates[hit.ResumeID]
		if !ok {
			resume, err := s.resumeStore.GetResume(ctx, hit.ResumeID)
			if err != nil {
				return nil, fmt.Errorf("get resume %s: %w", hit.ResumeID, err)
			}
			cand = &candidate{
				rank: domain.RankKey{
					// Hits arrive distance-ascending, so the first chunk
					// seen per resume is its best one. The resume's score
					// comes from that single chunk, never an average.
					Score:      domain.ScoreFromDistance(hit.Distance),
					UploadedAt: resume.UploadedAt,
					ResumeID:   resume.ID,
				},
				filename: resume.Filename,
			}
			candidates[hit.ResumeID] = cand
			order = append(order, hit.ResumeID)
		}

		if len(cand.snippets) < maxSnippetsPerResume {
			chunk, err := s.resumeStore.GetChunk(ctx, hit.ChunkID)
			if err != nil {
				return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
			}
			cand.snippets = append(cand.snippets, domain.AnswerSnippet{
				Page:  chunk.Page,
				Text:  chunk.Text,
				Start: chunk.StartOffset,
				End:   chunk.EndOffset,
			})
		}
	}

	ranked := make([]*candidate, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, candidates[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return domain.RankLess(ranked[i].rank, ranked[j].rank)
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	answers := make([]domain.Answer, 0, len(ranked))
	for _, cand := range ranked {
		answers = append(answers, domain.Answer{
			ResumeID: cand.rank.ResumeID,
			Filename: cand.filename,
			Score:    roundScore(cand.rank.Score),
			Snippets: cand.snippets,
		})
	}

	return &domain.AskResult{Answers: answers, Cached: false}, nil
}

// canonicalQueryKey derives the cache key for a query. The query text is
// trimmed but never lowercased: embeddings are case-sensitive, so distinct
// casings are distinct queries.
func canonicalQueryKey(query string, k int) string {
	sum := sha256.Sum256([]byte(query + ":" + strconv.Itoa(k)))
	return hex.EncodeToString(sum[:])
}

// roundScore rounds to four decimal places for presentation stability.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
