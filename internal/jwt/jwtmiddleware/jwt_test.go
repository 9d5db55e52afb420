package jwtmiddleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	security "github.com/Debashish2005/Shopzi/internal/jwt"
	"github.com/Debashish2005/Shopzi/internal/jwt/jwtmiddleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "testsecret")
	code := m.Run()
	os.Unsetenv("JWT_SECRET")
	os.Exit(code)
}

// handler records the user id the middleware put in the context.
func newProbe(t *testing.T, gotUserID *int64, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		id, ok := jwtmiddleware.FromContext(r.Context())
		require.True(t, ok, "user id must be in context behind the middleware")
		*gotUserID = id
		w.WriteHeader(http.StatusOK)
	})
}

func signToken(t *testing.T) string {
	t.Helper()
	token, err := security.NewToken(context.Background(), &models.User{
		ID:       17,
		FullName: "Test User",
		Email:    "test@example.com",
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_InvalidHeaderFormat(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_GarbageToken(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTMiddleware_ValidCookie(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CookieName, Value: signToken(t)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, int64(17), userID)
}

func TestJWTMiddleware_ValidBearerHeader(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, int64(17), userID)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	var userID int64
	var called bool
	handler := jwtmiddleware.NewJWTMiddleware()(newProbe(t, &userID, &called))

	expired, err := security.NewToken(context.Background(), &models.User{ID: 17}, -time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: jwtmiddleware.CookieName, Value: expired})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
