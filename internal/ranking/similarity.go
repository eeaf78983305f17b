package ranking

import (
	"math"

	"github.com/jonathan/job-recommender/internal/db"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|).
// It returns 0 when the vectors differ in length or either has zero magnitude,
// and the result is clamped to [-1, 1] to absorb floating point drift.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(sim):
		return 0
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// RankBySimilarity scores each job by the cosine similarity of its vector to
// profileVec and returns the topN best matches. jobVecs[i] belongs to jobs[i];
// a job without a vector scores 0.
func RankBySimilarity(profileVec []float64, jobs []db.JobPosting, jobVecs [][]float64, topN int) []ScoredJob {
	scored := make([]ScoredJob, 0, len(jobs))
	for i, job := range jobs {
		var vec []float64
		if i < len(jobVecs) {
			vec = jobVecs[i]
		}
		scored = append(scored, ScoredJob{
			Job:   job,
			Score: CosineSimilarity(profileVec, vec),
		})
	}

	return sortAndTruncate(scored, topN)
}
