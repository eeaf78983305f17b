package ranking

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-recommender/internal/db"
)

// Tokenize lower-cases text and splits it on whitespace, commas and semicolons.
// Empty tokens are dropped and duplicates are kept only once, in first-seen order.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}

// KeywordScore counts how many of the distinct tokens occur as a substring of
// the lower-cased job text. Each token contributes at most 1.
func KeywordScore(tokens []string, jobText string) int {
	lowered := strings.ToLower(jobText)
	score := 0
	for _, token := range tokens {
		if strings.Contains(lowered, token) {
			score++
		}
	}
	return score
}

// RankByKeywords scores every job by token overlap with skillsText and returns
// the topN best matches.
func RankByKeywords(skillsText string, jobs []db.JobPosting, topN int) []ScoredJob {
	tokens := Tokenize(skillsText)

	scored := make([]ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		scored = append(scored, ScoredJob{
			Job:   job,
			Score: float64(KeywordScore(tokens, job.Text)),
		})
	}

	return sortAndTruncate(scored, topN)
}
