// Package requirements extracts requirement keywords from free-text job
// descriptions.
//
// Extraction is intentionally mechanical: delimiter splitting plus a
// curated table of technology keywords. It runs exactly once at job
// creation, so the extracted set is stable for the job's lifetime.
package requirements

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxRequirements caps the extracted requirement set per job.
const MaxRequirements = 20

// techKeywords is the curated table of technology terms recognised even
// when they are not set off by delimiters.
var techKeywords = []string{
	"react", "vue", "angular", "node", "nodejs", "python", "java", "javascript",
	"typescript", "go", "rust", "c++", "c#", "ruby", "php", "swift", "kotlin",
	"django", "flask", "express", "fastapi", "spring", "rails",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"docker", "kubernetes", "aws", "azure", "gcp", "terraform",
	"git", "ci/cd", "agile", "scrum", "rest", "graphql", "api",
	"frontend", "backend", "fullstack", "devops", "machine learning", "ai",
}

var splitPattern = regexp.MustCompile(`[,;\n]|\sand\s`)

var alnumPattern = regexp.MustCompile(`[a-zA-Z0-9]`)

// Extract derives an ordered, case-insensitively deduplicated requirement
// keyword set from a job description. At most MaxRequirements entries are
// returned; a blank description yields none.
func Extract(description string) []string {
	var requirements []string

	for _, part := range splitPattern.Split(description, -1) {
		part = strings.TrimSpace(part)
		if len(part) <= 2 || len(part) >= 30 {
			continue
		}
		if !alnumPattern.MatchString(part) {
			continue
		}
		requirements = append(requirements, part)
	}

	// Add known tech keywords mentioned anywhere in the description but
	// not already captured by delimiter splitting.
	textLower := strings.ToLower(description)
	for _, keyword := range techKeywords {
		if !strings.Contains(textLower, keyword) {
			continue
		}
		already := false
		for _, req := range requirements {
			if strings.ToLower(req) == keyword {
				already = true
				break
			}
		}
		if !already {
			requirements = append(requirements, titleCase(keyword))
		}
	}

	// Deduplicate case-insensitively, preserving first-seen order.
	seen := make(map[string]struct{}, len(requirements))
	unique := make([]string, 0, len(requirements))
	for _, req := range requirements {
		lower := strings.ToLower(req)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		unique = append(unique, req)
	}

	if len(unique) > MaxRequirements {
		unique = unique[:MaxRequirements]
	}
	return unique
}

// titleCase upper-cases every letter that follows a non-letter, so
// "ci/cd" renders as "Ci/Cd" and "c++" as "C++". The keyword table is
// plain ASCII, so no Unicode casing rules apply.
func titleCase(s string) string {
	out := []byte(s)
	prevLetter := false
	for i, c := range out {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if isLetter && !prevLetter {
			out[i] = byte(unicode.ToUpper(rune(c)))
		}
		prevLetter = isLetter
	}
	return string(out)
}
