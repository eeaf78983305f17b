package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-recommender/internal/ingestion"
)

// DefaultCandidateLimit bounds how many job rows a single request may load
const DefaultCandidateLimit = 1000

// Source table constants for job postings
const (
	SourceJobs  = "jobs"
	SourcePosts = "posts"
)

// Profile is the part of a user profile the recommender reads
type Profile struct {
	ID         string `json:"id"`
	SkillsText string `json:"skills_text"`
}

// JobPosting represents a candidate job loaded from the jobs or posts table
type JobPosting struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content,omitempty"`
	JobMetadata json.RawMessage `json:"job_metadata,omitempty"`

	// Text is the best available description, used for embedding and keyword scoring
	Text string `json:"-"`
	// SourceTable is SourceJobs or SourcePosts, identical for a whole batch
	SourceTable string `json:"-"`
}

// jobRow mirrors a row serialized with to_jsonb. Columns other than the ones
// named here are ignored, and absent columns decode as empty.
type jobRow struct {
	ID          json.RawMessage `json:"id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Content     *string         `json:"content"`
	JobMetadata json.RawMessage `json:"job_metadata"`
}

// decodeJobRow converts one to_jsonb row into a JobPosting. Rows that are not
// JSON objects are rejected.
func decodeJobRow(raw []byte, source string) (JobPosting, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return JobPosting{}, fmt.Errorf("row is not a JSON object")
	}

	var row jobRow
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return JobPosting{}, fmt.Errorf("failed to decode row: %w", err)
	}

	p := JobPosting{
		ID:          rawID(row.ID),
		Title:       deref(row.Title),
		Description: deref(row.Description),
		Content:     deref(row.Content),
		SourceTable: source,
	}
	if len(row.JobMetadata) > 0 && string(row.JobMetadata) != "null" {
		p.JobMetadata = row.JobMetadata
	}
	p.Text = BestText(p.Description, p.Content, p.Title)
	return p, nil
}

// BestText returns the first candidate that is not blank once HTML markup is
// removed.
func BestText(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if text := ingestion.PlainText(c); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// FlattenSkills converts a skills column serialized as JSON into a single string.
// A JSON string is returned as-is, a JSON array is joined with single spaces in
// order, and null or missing values yield an empty string.
func FlattenSkills(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		return single
	}

	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, scalarText(item))
		}
		return strings.Join(parts, " ")
	}

	return scalarText(trimmed)
}

// rawID renders an id column that may be a UUID string or a number.
func rawID(raw json.RawMessage) string {
	return scalarText(raw)
}

// scalarText returns the text of a JSON string, the literal of any other
// scalar, and an empty string for null.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
