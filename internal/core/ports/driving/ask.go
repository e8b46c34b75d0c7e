package driving

import (
	"context"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// AskService answers natural-language queries against indexed resumes.
type AskService interface {
	// Ask ranks resumes by similarity to the query and returns the top k
	// with supporting snippets. Results are memoized for a bounded window;
	// the Cached flag reports whether this call was served from cache.
	Ask(ctx context.Context, query string, k int) (*domain.AskResult, error)
}
