package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must be deterministic: byte-identical input produces
// bit-identical output, across process restarts and across machines. This
// rules out network embedding providers and anything seeded from the clock.
// Embedding is a pure function and never fails for non-nil input; the empty
// string maps to a fixed vector.
type EmbeddingService interface {
	// Embed generates a unit-normalized vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding scheme being used.
	ModelName() string
}
