package domain

import "time"

// ResumeStatus tracks a resume through the ingestion pipeline.
type ResumeStatus string

const (
	// StatusPending means the upload is registered but not yet processed.
	StatusPending ResumeStatus = "pending"

	// StatusProcessing means chunking and indexing are in progress.
	StatusProcessing ResumeStatus = "processing"

	// StatusCompleted means the resume is fully indexed and searchable.
	StatusCompleted ResumeStatus = "completed"

	// StatusFailed means processing failed; the resume is not searchable.
	StatusFailed ResumeStatus = "failed"
)

// Resume represents one uploaded resume.
// Query paths never mutate it; only the ingestion pipeline transitions Status.
type Resume struct {
	// ID is the unique identifier for the resume.
	ID string

	// OwnerID references the uploading principal. May be empty for
	// single-user deployments.
	OwnerID string

	// Filename is the original upload filename, kept for display.
	Filename string

	// Status is the current lifecycle state.
	Status ResumeStatus

	// ContentHash is the hex SHA-256 of the uploaded bytes, used for
	// idempotent re-upload detection.
	ContentHash string

	// UploadedAt is the upload acceptance time. It participates in the
	// ranking tie-break chain, so it is immutable after creation.
	UploadedAt time.Time

	// ProcessedAt is when processing finished (completed or failed).
	ProcessedAt *time.Time
}

// Chunk represents one indexed span of a resume page's extracted text.
// Chunks are created once during ingestion and immutable thereafter;
// they are destroyed only with the owning resume.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// ResumeID links to the owning Resume. A chunk never spans resumes.
	ResumeID string

	// Page is the 1-based page number the chunk was cut from.
	Page int

	// StartOffset is the starting character offset into the page text.
	StartOffset int

	// EndOffset is the exclusive end offset. Always greater than StartOffset.
	EndOffset int

	// Text is the raw chunk text.
	Text string

	// Embedding is the unit-normalized vector representation.
	Embedding []float32
}

// ExtractedPage is one page of extracted resume text, as handed to the
// core by the upstream parsing layer.
type ExtractedPage struct {
	// Number is the 1-based page number.
	Number int

	// Text is the plain extracted text of the page.
	Text string
}
