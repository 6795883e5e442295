package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusFlowAPI/middleware"
	"focusFlowAPI/tests/helpers"
)

func authProbe(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return middleware.ClerkAuthMiddleware(next), &reached
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler, reached := authProbe(t)

	req := httptest.NewRequest("GET", "/api/v1/streaks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
	assert.Contains(t, rec.Body.String(), "Authorization header required")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	handler, reached := authProbe(t)

	req := httptest.NewRequest("GET", "/api/v1/streaks", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAuthMiddlewareRejectsUnverifiableToken(t *testing.T) {
	handler, reached := authProbe(t)

	// Signed with a local test key, so Clerk verification must fail.
	token, err := helpers.GenerateMockClerkJWT("user_test_auth")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/streaks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestGetClerkIDRoundTrip(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.ClerkIDKey, "user_abc")
	id, ok := middleware.GetClerkID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user_abc", id)

	_, ok = middleware.GetClerkID(context.Background())
	assert.False(t, ok)
}
