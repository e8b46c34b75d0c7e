package driven

import "context"

// VectorIndex stores chunk vectors keyed by owning resume and supports
// nearest-neighbour search.
//
// The distance metric is squared Euclidean (L2) distance between unit
// vectors, which is monotonic with cosine distance for normalized vectors
// and cheaper to compute.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for a chunk.
	// Returns domain.ErrDimensionMismatch if the vector has the wrong
	// dimensionality; the index is left intact in that case.
	Upsert(ctx context.Context, resumeID, chunkID string, embedding []float32) error

	// DeleteResume removes all vectors belonging to a resume.
	DeleteResume(ctx context.Context, resumeID string) error

	// Search finds the k chunks of globally smallest distance to the query
	// vector. Ties are broken by chunk insertion order, so results are
	// stable across identical calls.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// ResumeID is the resume owning the chunk.
	ResumeID string

	// Distance is the squared L2 distance to the query vector.
	// Smaller is more similar.
	Distance float64
}
