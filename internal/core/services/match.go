package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// DefaultTopN is the match count used when the caller does not specify one.
const DefaultTopN = 5

// maxEvidencePerCandidate caps evidence entries carried per match.
const maxEvidencePerCandidate = 3

// maxEvidenceLength bounds an evidence paragraph before falling back to a
// fixed radius around the match.
const maxEvidenceLength = 500

// Ensure MatchService implements the interface.
var _ driving.MatchService = (*MatchService)(nil)

// MatchService matches job requirements against indexed resumes.
type MatchService struct {
	resumeStore driven.ResumeStore
	jobStore    driven.JobStore
}

// NewMatchService creates a new match service.
func NewMatchService(resumeStore driven.ResumeStore, jobStore driven.JobStore) *MatchService {
	return &MatchService{resumeStore: resumeStore, jobStore: jobStore}
}

// Match scans completed resumes for evidence of each job requirement.
func (s *MatchService) Match(ctx context.Context, jobID string, topN int) (*domain.MatchResult, error) {
	logger.Section("Job Match")

	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	logger.Debug("Job %s: %d requirements, topN=%d", jobID, len(job.Requirements), topN)

	resumes, err := s.resumeStore.ListResumes(ctx, domain.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	type candidate struct {
		rank     domain.RankKey
		filename string
		evidence []domain.MatchEvidence
		missing  []string
	}

	candidates := make([]candidate, 0, len(resumes))
	for i := range resumes {
		resume := &resumes[i]

		chunks, err := s.resumeStore.GetChunks(ctx, resume.ID)
		if err != nil {
			return nil, fmt.Errorf("get chunks %s: %w", resume.ID, err)
		}
		if len(chunks) == 0 {
			continue
		}

		scan := scanCandidate(job.Requirements, chunks)
		if scan.score <= 0 {
			continue
		}

		evidence := scan.evidence
		if len(evidence) > maxEvidencePerCandidate {
			evidence = evidence[:maxEvidencePerCandidate]
		}

		candidates = append(candidates, candidate{
			rank: domain.RankKey{
				Score:      scan.score,
				UploadedAt: resume.UploadedAt,
				ResumeID:   resume.ID,
			},
			filename: resume.Filename,
			evidence: evidence,
			missing:  scan.missing,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return domain.RankLess(candidates[i].rank, candidates[j].rank)
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	matches := make([]domain.JobMatch, 0, len(candidates))
	for _, cand := range candidates {
		matches = append(matches, domain.JobMatch{
			ResumeID:            cand.rank.ResumeID,
			Filename:            cand.filename,
			Score:               roundScore(cand.rank.Score),
			Evidence:            cand.evidence,
			MissingRequirements: cand.missing,
		})
	}

	logger.Audit("match", "job", jobID, "candidates", len(resumes), "matches", len(matches))
	return &domain.MatchResult{JobID: jobID, Matches: matches}, nil
}

type scanResult struct {
	score    float64
	evidence []domain.MatchEvidence
	missing  []string
}

// scanCandidate checks every job requirement against a candidate's chunks.
// Matching is case-insensitive and word-boundary aware; each matched
// requirement contributes one evidence paragraph, deduplicated by text.
//
// A job with zero requirements scores 0 with no missing entries rather
// than dividing by zero.
func scanCandidate(reqs []string, chunks []domain.Chunk) scanResult {
	var result scanResult
	if len(reqs) == 0 {
		return result
	}

	matched := make([]string, 0, len(reqs))
	seen := make(map[string]struct{})

	for _, req := range reqs {
		found := false

		for _, chunk := range chunks {
			start, end := findKeyword(chunk.Text, req)
			if start < 0 {
				continue
			}
			found = true

			paragraph := evidenceWindow(chunk.Text, start, end)
			if _, dup := seen[paragraph]; !dup {
				seen[paragraph] = struct{}{}

				// Report every already-matched requirement visible in
				// this paragraph alongside the one that found it.
				keywords := []string{req}
				for _, prev := range matched {
					if s, _ := findKeyword(paragraph, prev); s >= 0 {
						keywords = append(keywords, prev)
					}
				}

				result.evidence = append(result.evidence, domain.MatchEvidence{
					Page:           chunk.Page,
					Text:           paragraph,
					MatchedKeyword: strings.Join(keywords, ", "),
					LineNumber:     strings.Count(chunk.Text[:start], "\n") + 1,
				})
			}
			break
		}

		if found {
			matched = append(matched, req)
		} else {
			result.missing = append(result.missing, req)
		}
	}

	result.score = float64(len(matched)) / float64(len(reqs))
	return result
}

// findKeyword locates the first word-boundary occurrence of keyword in
// text, case-insensitively. Returns byte offsets, or (-1, -1) when absent.
// Boundary checks only apply on sides where the keyword itself starts or
// ends with a word character, so terms like "c++" still match.
func findKeyword(text, keyword string) (int, int) {
	if keyword == "" {
		return -1, -1
	}

	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(keyword))
	if err != nil {
		return -1, -1
	}

	firstRune, _ := utf8.DecodeRuneInString(keyword)
	lastRune, _ := utf8.DecodeLastRuneInString(keyword)

	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]

		if isWordRune(firstRune) && start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			if isWordRune(prev) {
				continue
			}
		}
		if isWordRune(lastRune) && end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			if isWordRune(next) {
				continue
			}
		}
		return start, end
	}
	return -1, -1
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// evidenceWindow extracts the paragraph containing a match. Paragraphs are
// delimited by blank lines; over-long paragraphs fall back to a fixed
// character radius around the match with ellipsis markers.
func evidenceWindow(text string, start, end int) string {
	paraStart := strings.LastIndex(text[:start], "\n\n")
	if paraStart == -1 {
		paraStart = 0
	} else {
		paraStart += 2
	}

	paraEnd := len(text)
	if rel := strings.Index(text[start:], "\n\n"); rel != -1 {
		paraEnd = start + rel
	}

	paragraph := strings.TrimSpace(text[paraStart:paraEnd])
	if len(paragraph) <= maxEvidenceLength {
		return paragraph
	}

	lo := start - 200
	if lo < 0 {
		lo = 0
	}
	hi := end + 300
	if hi > len(text) {
		hi = len(text)
	}
	// Avoid slicing mid-rune at the fallback window edges.
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}

	window := strings.TrimSpace(text[lo:hi])
	if lo > 0 {
		window = "..." + window
	}
	if hi < len(text) {
		window += "..."
	}
	return window
}
