package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-recommender/internal/server/middleware"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Only authentication failures are the caller's fault; data store failures
// and anything unexpected are server errors.
func HTTPStatus(err error) int {
	var authErr *middleware.AuthenticationError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// publicMessage is the error text sent to clients. Data store details stay in
// the server log.
func publicMessage(err error) string {
	var authErr *middleware.AuthenticationError
	if errors.As(err, &authErr) {
		return "unauthorized"
	}
	return "failed to generate recommendations"
}
