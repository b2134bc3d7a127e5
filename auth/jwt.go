package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// contextKey is used for storing the requester ID in the request context
type contextKey string

const requesterContextKey contextKey = "requester_id"

// Middleware validates HMAC bearer tokens and injects the token subject
// (the identity-provider user ID) into the request context. Identity is
// resolved exactly once per request; downstream handlers never see a
// half-initialized auth state.
type Middleware struct {
	Secret string
	Logger *zap.Logger
}

func NewMiddleware(secret string, logger *zap.Logger) *Middleware {
	return &Middleware{Secret: secret, Logger: logger}
}

// Handler wraps next with bearer-token authentication
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.Logger.Warn("Missing authorization header",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			writeAuthError(w, http.StatusUnauthorized, "Authorization header required", "MISSING_AUTH_HEADER")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			m.Logger.Warn("Invalid authorization header format",
				zap.String("path", r.URL.Path))
			writeAuthError(w, http.StatusUnauthorized, "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		subject, err := m.parseSubject(tokenString)
		if err != nil {
			m.Logger.Warn("JWT validation failed",
				zap.Error(err),
				zap.String("path", r.URL.Path))
			writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
			return
		}

		m.Logger.Debug("Requester authenticated",
			zap.String("requesterId", subject),
			zap.String("path", r.URL.Path))

		ctx := context.WithValue(r.Context(), requesterContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseSubject validates the token and extracts the subject claim
func (m *Middleware) parseSubject(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.Secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("token has no subject")
	}

	return subject, nil
}

// RequesterID extracts the authenticated requester ID from the request context
func RequesterID(r *http.Request) (string, error) {
	id, ok := r.Context().Value(requesterContextKey).(string)
	if !ok || id == "" {
		return "", errors.New("no authenticated requester found in context")
	}
	return id, nil
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  code,
	})
}
