// Package domain defines the core business entities for Resumatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Resume: An uploaded resume and its processing lifecycle
//   - Chunk: An indexed span of a resume page
//   - Job: A requirement specification extracted from a job description
//   - Answer: A ranked ask-query result with supporting snippets
//   - JobMatch: A ranked job-match result with evidence and gaps
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
