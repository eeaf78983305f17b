package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "sb-access-token"

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{
		validTokens: make(map[string]uuid.UUID),
	}
}

func (v *testTokenValidator) addValidToken(token string, userID uuid.UUID) {
	v.validTokens[token] = userID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

// serve runs req through the middleware and reports whether the inner handler
// ran and which user it saw.
func serve(t *testing.T, validator TokenValidator, req *http.Request) (*httptest.ResponseRecorder, bool, uuid.UUID) {
	t.Helper()

	called := false
	var seen uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, err := GetUserID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	AuthMiddleware(validator, testCookie)(handler).ServeHTTP(w, req)
	return w, called, seen
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("header-token", userID)

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	w, called, seen := serve(t, validator, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)
}

func TestAuthMiddleware_BearerIsCaseInsensitive(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("tok", userID)

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.Header.Set("Authorization", "bearer tok")

	_, called, seen := serve(t, validator, req)
	assert.True(t, called)
	assert.Equal(t, userID, seen)
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("cookie-token", userID)

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "cookie-token"})

	w, called, seen := serve(t, validator, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)
}

func TestAuthMiddleware_HeaderWinsOverCookie(t *testing.T) {
	validator := newTestTokenValidator()
	headerUser := uuid.New()
	cookieUser := uuid.New()
	validator.addValidToken("header-token", headerUser)
	validator.addValidToken("cookie-token", cookieUser)

	req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "cookie-token"})

	_, _, seen := serve(t, validator, req)
	assert.Equal(t, headerUser, seen)
}

func TestAuthMiddleware_MalformedHeaderFallsBackToCookie(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("cookie-token", userID)

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "cookie-token"})

	_, called, seen := serve(t, validator, req)
	assert.True(t, called)
	assert.Equal(t, userID, seen)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	validator := newTestTokenValidator()
	validator.addValidToken("nil-user", uuid.Nil)

	tests := []struct {
		name   string
		header string
		cookie *http.Cookie
	}{
		{name: "no credentials"},
		{name: "bearer without token", header: "Bearer"},
		{name: "wrong scheme", header: "Token abc"},
		{name: "unknown bearer token", header: "Bearer nope"},
		{name: "unknown cookie token", cookie: &http.Cookie{Name: testCookie, Value: "nope"}},
		{name: "cookie with other name", cookie: &http.Cookie{Name: "other", Value: "nope"}},
		{name: "token without user", header: "Bearer nil-user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			w, called, _ := serve(t, validator, req)

			assert.False(t, called, "handler should not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body["error"], "unauthorized")
		})
	}
}

func TestAuthenticate_ReturnsAuthenticationError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.Header.Set("Authorization", "Bearer bad")

	_, err := Authenticate(req, newTestTokenValidator(), testCookie)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid token", authErr.Message)
	assert.EqualError(t, err, "authentication failed: invalid token: invalid token")
}

func TestExtractToken_NoCookieName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "tok"})

	assert.Equal(t, "", ExtractToken(req, ""))
	assert.Equal(t, "tok", ExtractToken(req, testCookie))
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := GetUserID(req)
	assert.Equal(t, uuid.Nil, id)

	var authErr *AuthenticationError
	assert.True(t, errors.As(err, &authErr))
}
