// Package recommend assembles job recommendations for a user: it loads the
// corpus, ranks it by embedding similarity and degrades to keyword overlap
// when the embedding provider cannot be used.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-recommender/internal/db"
	"github.com/jonathan/job-recommender/internal/embedding"
	"github.com/jonathan/job-recommender/internal/ranking"
)

// DefaultTopN is used when the caller asks for a non-positive number of results.
const DefaultTopN = 5

// Result is the outcome of a single recommendation request
type Result struct {
	RankedJobs          []ranking.ScoredJob `json:"ranked_jobs"`
	UsedPostsFallback   bool                `json:"used_posts_fallback"`
	UsedKeywordFallback bool                `json:"used_keyword_fallback"`
	Method              ranking.Method      `json:"method"`
}

// Source names the table the ranked jobs came from
func (r *Result) Source() string {
	if r.UsedPostsFallback {
		return db.SourcePosts
	}
	return db.SourceJobs
}

// Service produces recommendations. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	fetcher  *Fetcher
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewService creates a Service reading from store and embedding with embedder.
func NewService(store Store, embedder embedding.Embedder, candidateLimit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:  NewFetcher(store, candidateLimit, logger),
		embedder: embedder,
		logger:   logger,
	}
}

// Recommend ranks the candidate jobs for userID and returns at most topN of
// them. Only data store failures are returned as errors; embedding failures
// switch the whole ranking to keyword overlap.
func (s *Service) Recommend(ctx context.Context, userID string, topN int) (*Result, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	corpus, err := s.fetcher.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus: %w", err)
	}

	result := &Result{
		RankedJobs:        []ranking.ScoredJob{},
		UsedPostsFallback: corpus.UsedPostsFallback,
		Method:            ranking.MethodNone,
	}
	if corpus.Profile == nil || len(corpus.Jobs) == 0 {
		return result, nil
	}

	ranked, err := s.rankByEmbedding(ctx, corpus, topN)
	if err != nil {
		s.logger.Warn("embedding ranking failed, using keyword fallback",
			zap.String("user_id", userID),
			zap.Int("candidates", len(corpus.Jobs)),
			zap.Error(err))

		result.RankedJobs = ranking.RankByKeywords(corpus.Profile.SkillsText, corpus.Jobs, topN)
		result.UsedKeywordFallback = true
		result.Method = ranking.MethodKeyword
		return result, nil
	}

	result.RankedJobs = ranked
	result.Method = ranking.MethodEmbedding
	return result, nil
}

// rankByEmbedding embeds the profile and the job texts concurrently and ranks
// by cosine similarity. Any failure of either call fails the whole path.
func (s *Service) rankByEmbedding(ctx context.Context, corpus *Corpus, topN int) ([]ranking.ScoredJob, error) {
	jobTexts := make([]string, len(corpus.Jobs))
	for i, job := range corpus.Jobs {
		jobTexts[i] = job.Text
	}

	var profileVecs, jobVecs [][]float64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vecs, err := s.embedder.Embed(gctx, []string{corpus.Profile.SkillsText})
		if err != nil {
			return fmt.Errorf("profile embedding: %w", err)
		}
		profileVecs = vecs
		return nil
	})

	g.Go(func() error {
		vecs, err := s.embedder.Embed(gctx, jobTexts)
		if err != nil {
			return fmt.Errorf("job embeddings: %w", err)
		}
		jobVecs = vecs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(profileVecs) != 1 || len(jobVecs) != len(corpus.Jobs) {
		return nil, &embedding.ShapeMismatchError{
			Message:  "embedder returned the wrong number of vectors",
			Expected: 1 + len(corpus.Jobs),
			Got:      len(profileVecs) + len(jobVecs),
		}
	}

	return ranking.RankBySimilarity(profileVecs[0], corpus.Jobs, jobVecs, topN), nil
}

// Ping checks the underlying store when it supports health checks
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.fetcher.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
