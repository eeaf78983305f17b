// Package ranking orders candidate job postings against a profile, either by
// embedding similarity or by keyword overlap.
package ranking

import (
	"sort"

	"github.com/jonathan/job-recommender/internal/db"
)

// Method identifies how the scores in a ranking were produced
type Method string

const (
	// MethodEmbedding scores are cosine similarities in [-1, 1]
	MethodEmbedding Method = "embedding"
	// MethodKeyword scores are non-negative token overlap counts
	MethodKeyword Method = "keyword"
	// MethodNone is used when nothing was ranked
	MethodNone Method = "none"
)

// ScoredJob pairs a job posting with its relevance score
type ScoredJob struct {
	Job   db.JobPosting `json:"job"`
	Score float64       `json:"score"`
}

// sortAndTruncate sorts by score descending, keeping input order for ties,
// and then keeps at most topN entries.
func sortAndTruncate(scored []ScoredJob, topN int) []ScoredJob {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN < 0 {
		topN = 0
	}
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}
