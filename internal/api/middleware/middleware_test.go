package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/api/middleware"
	"github.com/jordanarrivado/ajs-portfolio/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	allowed   bool
	remaining int
	err       error
	keys      []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.remaining, time.Now().Add(30 * time.Second), l.err
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-for-dashboard!!", time.Hour)
	token, err := manager.GenerateAdminToken("admin")
	require.NoError(t, err)

	other := security.NewJWTManager("a-different-secret-key-entirely", time.Hour)
	foreign, err := other.GenerateAdminToken("admin")
	require.NoError(t, err)

	var seen string
	protected := middleware.NewAuthMiddleware(manager).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetAdmin(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/chatlog", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, "admin", seen)
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &fakeLimiter{allowed: true, remaining: 4}
	rec := httptest.NewRecorder()

	middleware.NewRateLimitMiddleware(limiter).Limit(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, []string{"192.0.2.1"}, limiter.keys)
}

func TestRateLimit_Exceeded(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	rec := httptest.NewRecorder()

	middleware.NewRateLimitMiddleware(limiter).Limit(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis: connection refused")}
	rec := httptest.NewRecorder()

	middleware.NewRateLimitMiddleware(limiter).Limit(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestLogger_PassesThrough(t *testing.T) {
	h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
