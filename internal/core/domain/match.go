package domain

// MatchEvidence is a located excerpt of candidate text supporting a
// requirement match.
type MatchEvidence struct {
	// Page is the 1-based page number of the containing chunk.
	Page int `json:"page"`

	// Text is the evidence paragraph.
	Text string `json:"text"`

	// MatchedKeyword lists the requirement keywords found in the
	// paragraph, comma-separated.
	MatchedKeyword string `json:"matched_keyword"`

	// LineNumber is the 1-based line of the first match within the chunk.
	LineNumber int `json:"line_number"`
}

// JobMatch is one ranked candidate in a job-match result.
type JobMatch struct {
	// ResumeID identifies the candidate resume.
	ResumeID string `json:"resume_id"`

	// Filename is the resume's original upload filename.
	Filename string `json:"filename"`

	// Score is the fraction of job requirements the candidate satisfies,
	// in [0, 1]. A job with zero requirements scores 0 for everyone.
	Score float64 `json:"score"`

	// Evidence lists supporting excerpts, at most three.
	Evidence []MatchEvidence `json:"evidence"`

	// MissingRequirements are the job requirements with no evidence in
	// the candidate's chunks, in requirement order.
	MissingRequirements []string `json:"missing_requirements"`
}

// MatchResult is the complete outcome of a job match.
type MatchResult struct {
	// JobID identifies the matched job.
	JobID string `json:"job_id"`

	// Matches are the ranked candidates.
	Matches []JobMatch `json:"matches"`
}
