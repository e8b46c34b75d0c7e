package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/embedding/hash"
	vecmemory "github.com/custodia-labs/resumatch-cli/internal/vectorindex/memory"
)

type askFixture struct {
	service *AskService
	store   *memory.ResumeStore
	index   *vecmemory.Index
	cache   *memory.QueryCache
}

func newAskFixture() *askFixture {
	store := memory.NewResumeStore()
	index := vecmemory.New(testDimensions)
	cache := memory.NewQueryCache()
	service := NewAskService(store, hash.New(hash.WithDimensions(testDimensions)), index, cache)
	return &askFixture{service: service, store: store, index: index, cache: cache}
}

// indexResume stores a completed resume with one chunk per text and upserts
// the chunk embeddings into the index.
func (f *askFixture) indexResume(t *testing.T, id, filename string, uploadedAt time.Time, texts ...string) {
	t.Helper()
	ctx := context.Background()

	now := uploadedAt
	require.NoError(t, f.store.SaveResume(ctx, &domain.Resume{
		ID:          id,
		Filename:    filename,
		Status:      domain.StatusCompleted,
		UploadedAt:  uploadedAt,
		ProcessedAt: &now,
	}))

	embedder := hash.New(hash.WithDimensions(testDimensions))
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		vec, err := embedder.Embed(ctx, text)
		require.NoError(t, err)
		chunks = append(chunks, domain.Chunk{
			ID:        id + "_chunk_" + string(rune('a'+i)),
			ResumeID:  id,
			Page:      1,
			EndOffset: len(text),
			Text:      text,
			Embedding: vec,
		})
	}
	require.NoError(t, f.store.SaveChunks(ctx, id, chunks))
	for _, chunk := range chunks {
		require.NoError(t, f.index.Upsert(ctx, id, chunk.ID, chunk.Embedding))
	}
}

func TestAsk_RanksExactChunkFirst(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// An identical chunk embeds to the same vector as the query, so its
	// distance is zero and it must outrank everything else.
	f.indexResume(t, "res_a", "a.pdf", base, "React and Node")
	f.indexResume(t, "res_b", "b.pdf", base, "React developer, no backend work")

	result, err := f.service.Ask(context.Background(), "React and Node", 5)
	require.NoError(t, err)

	require.Len(t, result.Answers, 2)
	assert.Equal(t, "res_a", result.Answers[0].ResumeID)
	assert.Equal(t, "res_b", result.Answers[1].ResumeID)
	assert.InDelta(t, 1.0, result.Answers[0].Score, 1e-9)
	assert.Greater(t, result.Answers[0].Score, result.Answers[1].Score)
	assert.False(t, result.Cached)
}

func TestAsk_OneAnswerPerResume(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	f.indexResume(t, "res_a", "a.pdf", base,
		"Go services",
		"Kubernetes operators",
		"Terraform modules",
	)

	result, err := f.service.Ask(context.Background(), "Go services", 5)
	require.NoError(t, err)

	require.Len(t, result.Answers, 1)
	assert.Equal(t, "res_a", result.Answers[0].ResumeID)
	assert.LessOrEqual(t, len(result.Answers[0].Snippets), maxSnippetsPerResume)
}

func TestAsk_CacheHitIsByteIdentical(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	f.indexResume(t, "res_a", "a.pdf", base, "Python and Django")

	ctx := context.Background()
	first, err := f.service.Ask(ctx, "Python", 3)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := f.service.Ask(ctx, "Python", 3)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	// Apart from the cached flag, the replayed result is identical.
	second.Cached = false
	assert.Equal(t, first, second)
}

func TestAsk_CacheKeyIncludesK(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	f.indexResume(t, "res_a", "a.pdf", base, "Python")
	f.indexResume(t, "res_b", "b.pdf", base, "Python scripting")

	ctx := context.Background()
	_, err := f.service.Ask(ctx, "Python", 1)
	require.NoError(t, err)

	// Same query with a different k must not replay the k=1 entry.
	result, err := f.service.Ask(ctx, "Python", 2)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Len(t, result.Answers, 2)
}

func TestAsk_CacheIsCaseSensitive(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	f.indexResume(t, "res_a", "a.pdf", base, "React")

	ctx := context.Background()
	_, err := f.service.Ask(ctx, "React", 3)
	require.NoError(t, err)

	result, err := f.service.Ask(ctx, "react", 3)
	require.NoError(t, err)
	assert.False(t, result.Cached)
}

func TestAsk_NilCache(t *testing.T) {
	store := memory.NewResumeStore()
	index := vecmemory.New(testDimensions)
	service := NewAskService(store, hash.New(hash.WithDimensions(testDimensions)), index, nil)

	f := &askFixture{service: service, store: store, index: index}
	f.indexResume(t, "res_a", "a.pdf", time.Now().UTC(), "Rust")

	for i := 0; i < 2; i++ {
		result, err := service.Ask(context.Background(), "Rust", 3)
		require.NoError(t, err)
		assert.False(t, result.Cached)
		assert.Len(t, result.Answers, 1)
	}
}

func TestAsk_EmptyQuery(t *testing.T) {
	f := newAskFixture()

	_, err := f.service.Ask(context.Background(), "   ", 3)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_DefaultK(t *testing.T) {
	f := newAskFixture()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		id := "res_" + string(rune('a'+i))
		f.indexResume(t, id, id+".pdf", base.Add(time.Duration(i)*time.Minute), "engineer number "+id)
	}

	result, err := f.service.Ask(context.Background(), "engineer", 0)
	require.NoError(t, err)
	assert.Len(t, result.Answers, DefaultAskK)
}

func TestAsk_EmptyIndex(t *testing.T) {
	f := newAskFixture()

	result, err := f.service.Ask(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, result.Answers)
}

func TestAsk_TieBreakByUploadTime(t *testing.T) {
	f := newAskFixture()
	older := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	// Identical chunk text gives both resumes the same distance; the
	// earlier upload wins.
	f.indexResume(t, "res_new", "new.pdf", newer, "Scala and Spark")
	f.indexResume(t, "res_old", "old.pdf", older, "Scala and Spark")

	result, err := f.service.Ask(context.Background(), "Scala", 5)
	require.NoError(t, err)

	require.Len(t, result.Answers, 2)
	assert.Equal(t, "res_old", result.Answers[0].ResumeID)
	assert.Equal(t, "res_new", result.Answers[1].ResumeID)
}
