// Package memory provides an in-memory brute-force vector index.
//
// Search is an exact scan over every stored vector. That keeps behaviour
// fully deterministic (no approximate-neighbour randomness) and is fast
// enough for the corpus sizes a local resume pool reaches.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunkID  string
	resumeID string
	vector   []float32

	// seq is the insertion sequence number, used as the stable tie-break
	// for equal distances. Replacing a vector keeps its original seq.
	seq uint64
}

// Index is an in-memory implementation of driven.VectorIndex using
// brute-force squared L2 distance.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string]*entry // keyed by chunk ID
	byResume   map[string][]string
	nextSeq    uint64
}

// New creates an index for vectors of the given dimensionality.
func New(dimensions int) *Index {
	return &Index{
		dimensions: dimensions,
		entries:    make(map[string]*entry),
		byResume:   make(map[string][]string),
	}
}

// Upsert inserts or replaces the vector for a chunk.
func (idx *Index) Upsert(_ context.Context, resumeID, chunkID string, embedding []float32) error {
	if len(embedding) != idx.dimensions {
		return domain.ErrDimensionMismatch
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.entries[chunkID]; ok {
		existing.vector = vec
		existing.resumeID = resumeID
		return nil
	}

	idx.entries[chunkID] = &entry{
		chunkID:  chunkID,
		resumeID: resumeID,
		vector:   vec,
		seq:      idx.nextSeq,
	}
	idx.nextSeq++
	idx.byResume[resumeID] = append(idx.byResume[resumeID], chunkID)
	return nil
}

// DeleteResume removes all vectors belonging to a resume.
func (idx *Index) DeleteResume(_ context.Context, resumeID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, chunkID := range idx.byResume[resumeID] {
		delete(idx.entries, chunkID)
	}
	delete(idx.byResume, resumeID)
	return nil
}

// Search finds the k nearest chunks by squared L2 distance.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, domain.ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		hit driven.VectorHit
		seq uint64
	}

	results := make([]scored, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:  e.chunkID,
				ResumeID: e.resumeID,
				Distance: squaredL2(e.vector, query),
			},
			seq: e.seq,
		})
	}

	// Smallest distance first; ties resolved by insertion order so
	// identical queries always return identical orderings.
	sort.Slice(results, func(i, j int) bool {
		if results[i].hit.Distance != results[j].hit.Distance {
			return results[i].hit.Distance < results[j].hit.Distance
		}
		return results[i].seq < results[j].seq
	})

	if k > len(results) {
		k = len(results)
	}

	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = results[i].hit
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
