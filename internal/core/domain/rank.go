package domain

import "time"

// ScoreFromDistance converts a squared L2 distance into a similarity score.
// Distance 0 maps to 1.0 and the score decreases monotonically towards 0,
// so a higher score always means a better match.
func ScoreFromDistance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

// RankKey carries the attributes the ranking total order is defined over.
// The order is a pure function of these fields, never of iteration order.
type RankKey struct {
	// Score is the primary sort key, descending.
	Score float64

	// UploadedAt breaks score ties, ascending: on an exact tie the older
	// resume wins.
	UploadedAt time.Time

	// ResumeID is the final tie-break, ascending. It guarantees a strict
	// total order even for identical scores and timestamps.
	ResumeID string
}

// RankLess reports whether a sorts before b under the ranking total order:
// score descending, then upload time ascending, then resume ID ascending.
// This exact chain is what makes repeated queries reproducible; do not
// reorder or drop a level.
func RankLess(a, b RankKey) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.Before(b.UploadedAt)
	}
	return a.ResumeID < b.ResumeID
}
