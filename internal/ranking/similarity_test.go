package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, -1},
		{"zero vector", []float64{0, 0, 0}, []float64{1, 2, 3}, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_Partial(t *testing.T) {
	// cos(45°)
	sim := CosineSimilarity([]float64{1, 0}, []float64{1, 1})
	assert.InDelta(t, 1/math.Sqrt2, sim, 1e-9)
}

func TestCosineSimilarity_StaysInBounds(t *testing.T) {
	vectors := [][]float64{
		{0.1, 0.2, 0.3},
		{1e-8, 1e-8, 1e-8},
		{1e8, -1e8, 3},
		{-0.5, 0.25, 0.125},
		{0.3333333333, 0.3333333333, 0.3333333334},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			assert.GreaterOrEqual(t, sim, -1.0)
			assert.LessOrEqual(t, sim, 1.0)
		}
	}
}

func TestRankBySimilarity_OrdersByCosine(t *testing.T) {
	jobs := makeJobs("far", "close", "opposite")
	profile := []float64{1, 0}
	vecs := [][]float64{
		{0, 1},
		{1, 0.1},
		{-1, 0},
	}

	result := RankBySimilarity(profile, jobs, vecs, 5)
	require.Len(t, result, 3)
	assert.Equal(t, []string{"job_1", "job_0", "job_2"}, ids(result))
	assertDescending(t, result)
	for _, r := range result {
		assert.GreaterOrEqual(t, r.Score, -1.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRankBySimilarity_TiesKeepCorpusOrder(t *testing.T) {
	jobs := makeJobs("a", "b", "c")
	profile := []float64{3, 1}
	vecs := [][]float64{{1, 2}, {1, 2}, {1, 2}}

	result := RankBySimilarity(profile, jobs, vecs, 3)
	assert.Equal(t, []string{"job_0", "job_1", "job_2"}, ids(result))
}

func TestRankBySimilarity_TruncatesToTopN(t *testing.T) {
	jobs := makeJobs("a", "b", "c", "d")
	profile := []float64{1, 0}
	vecs := [][]float64{{0.1, 1}, {1, 0}, {0.5, 0.5}, {0, 1}}

	result := RankBySimilarity(profile, jobs, vecs, 2)
	assert.Equal(t, []string{"job_1", "job_2"}, ids(result))
}

func TestRankBySimilarity_DimensionMismatchScoresZero(t *testing.T) {
	jobs := makeJobs("a", "b")
	profile := []float64{1, 0, 0}
	vecs := [][]float64{{1, 0}, {1, 0, 0}}

	result := RankBySimilarity(profile, jobs, vecs, 2)
	require.Len(t, result, 2)
	assert.Equal(t, "job_1", result[0].Job.ID)
	assert.Equal(t, 0.0, result[1].Score)
}

func TestRankBySimilarity_MissingVectorScoresZero(t *testing.T) {
	jobs := makeJobs("a", "b")
	result := RankBySimilarity([]float64{1}, jobs, [][]float64{{1}}, 2)

	require.Len(t, result, 2)
	assert.Equal(t, "job_0", result[0].Job.ID)
	assert.Equal(t, 0.0, result[1].Score)
}

func TestRankBySimilarity_Idempotent(t *testing.T) {
	jobs := makeJobs("a", "b", "c", "d")
	profile := []float64{0.3, 0.7, 0.1}
	vecs := [][]float64{{0.2, 0.1, 0.9}, {0.3, 0.7, 0.1}, {0.3, 0.7, 0.1}, {-0.1, 0.4, 0.2}}

	first := RankBySimilarity(profile, jobs, vecs, 3)
	second := RankBySimilarity(profile, jobs, vecs, 3)
	assert.Equal(t, first, second)
}
