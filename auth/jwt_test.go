package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"padrinho_server/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protected(t *testing.T) (http.Handler, *string) {
	var seen string
	mw := auth.NewMiddleware(testSecret, zap.NewNop())
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := auth.RequesterID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestMiddleware(t *testing.T) {
	t.Run("valid token passes the subject through", func(t *testing.T) {
		handler, seen := protected(t)

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-42", *seen)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "MISSING_AUTH_HEADER")
	})

	t.Run("non-bearer header is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_AUTH_FORMAT")
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "user-42"})

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without subject is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		token := signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
