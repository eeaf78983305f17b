package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/job-recommender/internal/ranking"
	"github.com/jonathan/job-recommender/internal/recommend"
	"github.com/jonathan/job-recommender/internal/server/middleware"
)

// recommendationJSON is one entry of the recommendations response
type recommendationJSON struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	JobMetadata json.RawMessage `json:"job_metadata"`
	Score       float64         `json:"score"`
}

type recommendationsResponse struct {
	Recommendations []recommendationJSON `json:"recommendations"`
	Source          string               `json:"source"`
	Method          ranking.Method       `json:"method"`
}

// parseQueryInt parses a positive integer query parameter. Missing,
// malformed and non-positive values yield defaultValue; values above
// maxValue are capped when maxValue is positive.
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleRecommendations returns the top n jobs for the authenticated user.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), publicMessage(err))
		return
	}

	topN := parseQueryInt(r, "n", recommend.DefaultTopN, s.candidateLimit)

	result, err := s.recommender.Recommend(r.Context(), userID.String(), topN)
	if err != nil {
		s.logger.Error("recommendation failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), publicMessage(err))
		return
	}

	s.logger.Debug("recommendations served",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(result.RankedJobs)),
		zap.String("source", result.Source()),
		zap.String("method", string(result.Method)))

	s.jsonResponse(w, http.StatusOK, toResponse(result))
}

func toResponse(result *recommend.Result) recommendationsResponse {
	items := make([]recommendationJSON, len(result.RankedJobs))
	for i, sj := range result.RankedJobs {
		items[i] = recommendationJSON{
			ID:          sj.Job.ID,
			Title:       sj.Job.Title,
			Description: sj.Job.Description,
			JobMetadata: sj.Job.JobMetadata,
			Score:       sj.Score,
		}
	}

	return recommendationsResponse{
		Recommendations: items,
		Source:          result.Source(),
		Method:          result.Method,
	}
}
