package domain

import "time"

// Job is a requirement specification to match candidates against.
// Requirements are extracted once at creation time and never recomputed.
type Job struct {
	// ID is the unique identifier for the job.
	ID string

	// OwnerID references the creating principal. May be empty.
	OwnerID string

	// Title is the human-readable job title.
	Title string

	// Description is the free-text job description.
	Description string

	// Requirements is the ordered set of extracted requirement keywords,
	// deduplicated case-insensitively.
	Requirements []string

	// CreatedAt is when the job was created.
	CreatedAt time.Time
}
