package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SchemaNotFoundError indicates the queried table does not exist in the expected
// shape: a missing relation or column, no privilege on it, or rows that are not
// JSON objects. Callers may recover by querying an alternative table.
type SchemaNotFoundError struct {
	Table   string
	Message string
	Cause   error
}

func (e *SchemaNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema not found for %s: %s: %v", e.Table, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema not found for %s: %s", e.Table, e.Message)
}

func (e *SchemaNotFoundError) Unwrap() error {
	return e.Cause
}

// DataStoreError represents a query failure that has no fallback
type DataStoreError struct {
	Op    string
	Cause error
}

func (e *DataStoreError) Error() string {
	return fmt.Sprintf("data store error during %s: %v", e.Op, e.Cause)
}

func (e *DataStoreError) Unwrap() error {
	return e.Cause
}

// SQLSTATE codes treated as "the table is not there in the shape we expect".
const (
	sqlStateUndefinedTable        = "42P01"
	sqlStateUndefinedColumn       = "42703"
	sqlStateInsufficientPrivilege = "42501"
)

// IsSchemaError reports whether err is a PostgreSQL error caused by a missing
// table, a missing column or a missing privilege.
func IsSchemaError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateUndefinedTable, sqlStateUndefinedColumn, sqlStateInsufficientPrivilege:
		return true
	default:
		return false
	}
}

// classifyQueryError wraps a failed query on table as either a
// SchemaNotFoundError or a DataStoreError.
func classifyQueryError(table, op string, err error) error {
	if IsSchemaError(err) {
		return &SchemaNotFoundError{Table: table, Message: "query rejected", Cause: err}
	}
	return &DataStoreError{Op: op, Cause: err}
}
