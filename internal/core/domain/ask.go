package domain

// AnswerSnippet is a chunk excerpt supporting an ask-query answer.
type AnswerSnippet struct {
	// Page is the 1-based page number the snippet came from.
	Page int `json:"page"`

	// Text is the snippet text.
	Text string `json:"text"`

	// Start is the starting character offset into the page.
	Start int `json:"start"`

	// End is the exclusive end offset.
	End int `json:"end"`
}

// Answer is one ranked resume in an ask-query result.
type Answer struct {
	// ResumeID identifies the matched resume.
	ResumeID string `json:"resume_id"`

	// Filename is the resume's original upload filename.
	Filename string `json:"filename"`

	// Score is the similarity score in (0, 1], derived from the
	// resume's best chunk distance.
	Score float64 `json:"score"`

	// Snippets are the best matching chunk excerpts, at most three.
	Snippets []AnswerSnippet `json:"snippets"`
}

// AskResult is the complete outcome of an ask query.
type AskResult struct {
	// Answers are the ranked resumes.
	Answers []Answer `json:"answers"`

	// Cached reports whether the result was served from the query cache.
	// A cached result is byte-identical to a fresh one except for this flag.
	Cached bool `json:"cached"`
}
