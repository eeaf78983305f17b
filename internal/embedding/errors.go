package embedding

import "fmt"

// UpstreamServiceError represents a failed call to the embedding provider:
// a network error, a timeout or a non-success HTTP status.
type UpstreamServiceError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamServiceError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("embedding service error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("embedding service error: %s", msg)
}

func (e *UpstreamServiceError) Unwrap() error {
	return e.Cause
}

// ShapeMismatchError indicates the provider answered with something other than
// one numeric vector per input.
type ShapeMismatchError struct {
	Expected int
	Got      int
	Message  string
	Cause    error
}

func (e *ShapeMismatchError) Error() string {
	msg := e.Message
	if e.Expected > 0 || e.Got > 0 {
		msg = fmt.Sprintf("%s (expected %d vectors, got %d)", e.Message, e.Expected, e.Got)
	}
	if e.Cause != nil {
		return fmt.Sprintf("embedding shape mismatch: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("embedding shape mismatch: %s", msg)
}

func (e *ShapeMismatchError) Unwrap() error {
	return e.Cause
}
