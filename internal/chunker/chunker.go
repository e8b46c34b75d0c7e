// Package chunker provides fixed-size overlapping text chunking with
// position metadata.
package chunker

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 200

// Span is one chunk of a page: character offsets plus the covered text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Chunker splits page text into overlapping fixed-size windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Spans splits page text into spans covering every character. Each span is
// at most chunkSize characters; consecutive spans overlap by exactly the
// configured overlap. The final span of a page may be shorter. Empty text
// produces no spans. Offsets are character (rune) offsets so they line up
// with what the extraction layer reports.
func (c *Chunker) Spans(text string) []Span {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	textLen := len(runes)

	step := c.chunkSize - c.overlap
	estimated := textLen/step + 1
	spans := make([]Span, 0, estimated)

	start := 0
	for start < textLen {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		spans = append(spans, Span{
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})

		if end >= textLen {
			break
		}
		start += step
	}

	return spans
}

// ChunkPage converts a page of extracted text into domain chunks for the
// given resume. Chunk IDs are freshly generated; embeddings are filled in
// later by the ingestion pipeline.
func (c *Chunker) ChunkPage(resumeID string, page domain.ExtractedPage) []domain.Chunk {
	spans := c.Spans(page.Text)
	if len(spans) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(spans))
	for _, span := range spans {
		chunks = append(chunks, domain.Chunk{
			ID:          "chunk_" + uuid.New().String(),
			ResumeID:    resumeID,
			Page:        page.Number,
			StartOffset: span.Start,
			EndOffset:   span.End,
			Text:        span.Text,
		})
	}

	return chunks
}
