// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// userIDKey is the context key for storing the authenticated user ID.
const userIDKey ContextKey = "userID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter is an interface for extracting user ID from token claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// AuthenticationError indicates a request without a usable token
type AuthenticationError struct {
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// AuthMiddleware creates middleware that validates JWT tokens and adds user ID to request context.
// The bearer token in the Authorization header is checked first, then the
// session cookie named cookieName.
func AuthMiddleware(validator TokenValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := Authenticate(r, validator, cookieName)
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate resolves the user ID for r. All failures are *AuthenticationError.
func Authenticate(r *http.Request, validator TokenValidator, cookieName string) (uuid.UUID, error) {
	tokenString := ExtractToken(r, cookieName)
	if tokenString == "" {
		return uuid.Nil, &AuthenticationError{Message: "missing token"}
	}

	claims, err := validator.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, &AuthenticationError{Message: "invalid token", Cause: err}
	}

	userID := claims.GetUserID()
	if userID == uuid.Nil {
		return uuid.Nil, &AuthenticationError{Message: "token has no user"}
	}
	return userID, nil
}

// ExtractToken returns the bearer token from the Authorization header or,
// when the header carries none, the value of the session cookie.
func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Handle case-insensitive "Bearer" prefix
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &AuthenticationError{Message: "user ID not found in request context"}
	}
	return userID, nil
}

// unauthorized writes a 401 with a JSON error body. The cause is not exposed.
func unauthorized(w http.ResponseWriter, err error) {
	message := "unauthorized"
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		message = "unauthorized: " + authErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
