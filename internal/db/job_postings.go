package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Recommendation corpus queries
// -----------------------------------------------------------------------------

const (
	getProfileSQL = `SELECT to_jsonb(p.skills) FROM profiles p WHERE p.id::text = $1`

	listJobsSQL = `SELECT to_jsonb(j) FROM jobs j
		 ORDER BY j.id
		 LIMIT $1`

	listJobPostsSQL = `SELECT to_jsonb(p) FROM posts p
		 WHERE p.is_job_post = true
		 ORDER BY p.id
		 LIMIT $1`
)

// GetProfile retrieves the skills of a profile by user ID.
// Returns nil, nil when the profile does not exist.
func (db *DB) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var skills []byte
	err := db.q.QueryRow(ctx, getProfileSQL, userID).Scan(&skills)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &DataStoreError{Op: "get profile", Cause: err}
	}

	return &Profile{
		ID:         userID,
		SkillsText: FlattenSkills(skills),
	}, nil
}

// ListJobs retrieves up to limit rows from the dedicated jobs table.
// A missing or differently shaped jobs table yields a SchemaNotFoundError.
func (db *DB) ListJobs(ctx context.Context, limit int) ([]JobPosting, error) {
	return db.listJobRows(ctx, SourceJobs, listJobsSQL, limit)
}

// ListJobPosts retrieves up to limit posts flagged with is_job_post.
func (db *DB) ListJobPosts(ctx context.Context, limit int) ([]JobPosting, error) {
	return db.listJobRows(ctx, SourcePosts, listJobPostsSQL, limit)
}

func (db *DB) listJobRows(ctx context.Context, table, query string, limit int) ([]JobPosting, error) {
	if limit <= 0 || limit > DefaultCandidateLimit {
		limit = DefaultCandidateLimit
	}

	rows, err := db.q.Query(ctx, query, limit)
	if err != nil {
		return nil, classifyQueryError(table, "list "+table, err)
	}
	defer rows.Close()

	postings := make([]JobPosting, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, &DataStoreError{Op: "scan " + table, Cause: err}
		}
		posting, err := decodeJobRow(raw, table)
		if err != nil {
			return nil, &SchemaNotFoundError{
				Table:   table,
				Message: fmt.Sprintf("unexpected row shape at index %d", len(postings)),
				Cause:   err,
			}
		}
		postings = append(postings, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyQueryError(table, "list "+table, err)
	}

	return postings, nil
}
