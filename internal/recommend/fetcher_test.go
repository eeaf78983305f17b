package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-recommender/internal/db"
)

// fakeStore is an in-memory Store
type fakeStore struct {
	mu sync.Mutex

	profile    *db.Profile
	profileErr error
	jobs       []db.JobPosting
	jobsErr    error
	posts      []db.JobPosting
	postsErr   error

	jobsCalls  int
	postsCalls int
	lastLimit  int
}

func (s *fakeStore) GetProfile(_ context.Context, _ string) (*db.Profile, error) {
	return s.profile, s.profileErr
}

func (s *fakeStore) ListJobs(_ context.Context, limit int) ([]db.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobsCalls++
	s.lastLimit = limit
	return s.jobs, s.jobsErr
}

func (s *fakeStore) ListJobPosts(_ context.Context, limit int) ([]db.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postsCalls++
	s.lastLimit = limit
	return s.posts, s.postsErr
}

func jobsFrom(source string, texts ...string) []db.JobPosting {
	jobs := make([]db.JobPosting, len(texts))
	for i, text := range texts {
		jobs[i] = db.JobPosting{
			ID:          source + "_" + string(rune('a'+i)),
			Title:       "Job " + string(rune('A'+i)),
			Description: text,
			Text:        text,
			SourceTable: source,
		}
	}
	return jobs
}

func TestFetch_UsesJobsTable(t *testing.T) {
	store := &fakeStore{
		profile: &db.Profile{ID: "u1", SkillsText: "go"},
		jobs:    jobsFrom(db.SourceJobs, "go developer"),
		posts:   jobsFrom(db.SourcePosts, "should not be read"),
	}

	corpus, err := NewFetcher(store, 100, nil).Fetch(context.Background(), "u1")
	require.NoError(t, err)

	assert.False(t, corpus.UsedPostsFallback)
	assert.Len(t, corpus.Jobs, 1)
	assert.Equal(t, db.SourceJobs, corpus.Jobs[0].SourceTable)
	assert.Equal(t, 0, store.postsCalls)
	assert.Equal(t, 100, store.lastLimit)
}

func TestFetch_SchemaErrorFallsBackToPosts(t *testing.T) {
	store := &fakeStore{
		profile: &db.Profile{ID: "u1", SkillsText: "go"},
		jobsErr: &db.SchemaNotFoundError{Table: db.SourceJobs, Message: "relation does not exist"},
		posts:   jobsFrom(db.SourcePosts, "go", "rust"),
	}

	corpus, err := NewFetcher(store, 0, nil).Fetch(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, corpus.UsedPostsFallback)
	require.Len(t, corpus.Jobs, 2)
	for _, job := range corpus.Jobs {
		assert.Equal(t, db.SourcePosts, job.SourceTable, "corpus must come entirely from posts")
	}
	assert.Equal(t, db.DefaultCandidateLimit, store.lastLimit)
}

func TestFetch_WrappedSchemaErrorStillFallsBack(t *testing.T) {
	schemaErr := &db.SchemaNotFoundError{Table: db.SourceJobs, Message: "column missing"}
	store := &fakeStore{
		profile: &db.Profile{ID: "u1"},
		jobsErr: errors.Join(errors.New("query failed"), schemaErr),
		posts:   jobsFrom(db.SourcePosts, "go"),
	}

	corpus, err := NewFetcher(store, 10, nil).Fetch(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, corpus.UsedPostsFallback)
}

func TestFetch_DataStoreErrorOnJobsPropagates(t *testing.T) {
	store := &fakeStore{
		profile: &db.Profile{ID: "u1"},
		jobsErr: &db.DataStoreError{Op: "list jobs", Cause: errors.New("connection refused")},
		posts:   jobsFrom(db.SourcePosts, "go"),
	}

	_, err := NewFetcher(store, 10, nil).Fetch(context.Background(), "u1")
	require.Error(t, err)

	var dsErr *db.DataStoreError
	assert.True(t, errors.As(err, &dsErr))
	assert.Equal(t, 0, store.postsCalls, "posts fallback only applies to schema errors")
}

func TestFetch_PostsFailurePropagates(t *testing.T) {
	store := &fakeStore{
		profile:  &db.Profile{ID: "u1"},
		jobsErr:  &db.SchemaNotFoundError{Table: db.SourceJobs},
		postsErr: &db.DataStoreError{Op: "list posts", Cause: errors.New("timeout")},
	}

	_, err := NewFetcher(store, 10, nil).Fetch(context.Background(), "u1")

	var dsErr *db.DataStoreError
	assert.True(t, errors.As(err, &dsErr))
}

func TestFetch_MissingProfile(t *testing.T) {
	store := &fakeStore{jobs: jobsFrom(db.SourceJobs, "go")}

	corpus, err := NewFetcher(store, 10, nil).Fetch(context.Background(), "u1")
	require.NoError(t, err)

	assert.Nil(t, corpus.Profile)
	assert.Empty(t, corpus.Jobs)
	assert.False(t, corpus.UsedPostsFallback)
	assert.Equal(t, 0, store.jobsCalls)
}

func TestFetch_ProfileErrorPropagates(t *testing.T) {
	store := &fakeStore{profileErr: &db.DataStoreError{Op: "get profile", Cause: errors.New("boom")}}

	_, err := NewFetcher(store, 10, nil).Fetch(context.Background(), "u1")

	var dsErr *db.DataStoreError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "get profile", dsErr.Op)
}

func TestNewFetcher_ClampsLimit(t *testing.T) {
	assert.Equal(t, db.DefaultCandidateLimit, NewFetcher(&fakeStore{}, -1, nil).limit)
	assert.Equal(t, db.DefaultCandidateLimit, NewFetcher(&fakeStore{}, 5000, nil).limit)
	assert.Equal(t, 25, NewFetcher(&fakeStore{}, 25, nil).limit)
}
