package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jonathan/job-recommender/internal/db"
)

// Store is the read-only view of the data store used to build a corpus.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*db.Profile, error)
	ListJobs(ctx context.Context, limit int) ([]db.JobPosting, error)
	ListJobPosts(ctx context.Context, limit int) ([]db.JobPosting, error)
}

// Corpus is the profile and candidate jobs for one request
type Corpus struct {
	Profile           *db.Profile
	Jobs              []db.JobPosting
	UsedPostsFallback bool
}

// Fetcher loads the corpus, substituting the posts table for the jobs table
// when the jobs table is unusable.
type Fetcher struct {
	store  Store
	limit  int
	logger *zap.Logger
}

// NewFetcher creates a Fetcher. limit bounds the number of candidate jobs.
func NewFetcher(store Store, limit int, logger *zap.Logger) *Fetcher {
	if limit <= 0 || limit > db.DefaultCandidateLimit {
		limit = db.DefaultCandidateLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{store: store, limit: limit, logger: logger}
}

// Fetch returns the corpus for userID. A missing profile yields a Corpus with
// a nil Profile and no jobs. Only schema errors on the jobs table trigger the
// posts fallback; every other data store error is returned.
func (f *Fetcher) Fetch(ctx context.Context, userID string) (*Corpus, error) {
	profile, err := f.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &Corpus{}, nil
	}

	jobs, err := f.store.ListJobs(ctx, f.limit)
	if err == nil {
		return &Corpus{Profile: profile, Jobs: jobs}, nil
	}

	var schemaErr *db.SchemaNotFoundError
	if !errors.As(err, &schemaErr) {
		return nil, err
	}

	f.logger.Warn("jobs table unavailable, using posts fallback",
		zap.String("user_id", userID),
		zap.Error(err))

	posts, err := f.store.ListJobPosts(ctx, f.limit)
	if err != nil {
		return nil, err
	}
	return &Corpus{Profile: profile, Jobs: posts, UsedPostsFallback: true}, nil
}
