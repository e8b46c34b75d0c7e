package driven

import (
	"context"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

// PageExtractor supplies extracted page text for a registered resume.
// Parsing of the original file format (PDF, DOCX) happens upstream; the
// core only ever sees plain text pages.
type PageExtractor interface {
	// Pages returns the ordered extracted pages for a resume.
	// Returns domain.ErrNotFound if no extracted text exists.
	Pages(ctx context.Context, resumeID string) ([]domain.ExtractedPage, error)
}
