// Package hash provides a deterministic embedding service built on SHA-256
// digest expansion.
//
// The embedder trades semantic quality for reproducibility: the same input
// text yields a bit-identical vector on every call, across process restarts
// and across machines. It needs no network, no model weights and no seeds,
// which is what makes query results and rankings replayable.
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// DefaultDimensions is the default embedding vector size, chosen for
// drop-in compatibility with common embedding model output shapes.
const DefaultDimensions = 1536

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder maps text to fixed-dimension unit vectors deterministically.
type Embedder struct {
	dimensions int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimensions sets the embedding vector size.
func WithDimensions(d int) Option {
	return func(e *Embedder) {
		if d > 0 {
			e.dimensions = d
		}
	}
}

// New creates a new deterministic embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed generates a unit-normalized vector for the given text.
//
// The input is digested with SHA-256, then the digest is expanded by
// re-digesting digest||counter until enough bytes exist. Each byte maps
// linearly onto [-1, 1]. The raw vector is normalized to unit length;
// should expansion ever produce the all-zero vector, a fixed fallback
// unit vector is returned instead of dividing by zero.
//
// Embed is a pure function and never fails.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the name of the embedding scheme.
func (e *Embedder) ModelName() string {
	return "hash-sha256"
}

func (e *Embedder) embed(text string) []float32 {
	seed := sha256.Sum256([]byte(text))

	raw := make([]float32, 0, e.dimensions)
	var counter uint32
	for len(raw) < e.dimensions {
		// Expand the seed digest: block = SHA256(seed || counter).
		var buf [sha256.Size + 4]byte
		copy(buf[:], seed[:])
		binary.BigEndian.PutUint32(buf[sha256.Size:], counter)
		block := sha256.Sum256(buf[:])
		counter++

		for _, b := range block {
			if len(raw) == e.dimensions {
				break
			}
			// Map 0..255 linearly onto [-1, 1].
			raw = append(raw, float32(b)/127.5-1.0)
		}
	}

	return normalize(raw, e.dimensions)
}

// normalize scales the vector to unit L2 norm. An all-zero input returns
// the fixed fallback unit vector e1.
func normalize(vec []float32, dimensions int) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		fallback := make([]float32, dimensions)
		fallback[0] = 1.0
		return fallback
	}

	norm := math.Sqrt(sum)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec
}
