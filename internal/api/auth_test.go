package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stolik/internal/config"

	"github.com/stretchr/testify/assert"
)

func authConfig(enabled bool, rps float64, burst int) config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		Auth: config.APIAuthConfig{
			Enabled:      enabled,
			HeaderAPIKey: "x-api-key",
			APIKeys: []config.APIClientKey{
				{Key: "valid-key", Name: "frontdesk"},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: rps, Burst: burst},
	}
}

func wrapOK(cfg config.APIConfig) http.Handler {
	return NewHTTPAuth(cfg).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTPAuthValidKey(t *testing.T) {
	handler := wrapOK(authConfig(true, 100, 200))
	assert.Equal(t, http.StatusOK, doRequest(handler, "valid-key").Code)
}

func TestHTTPAuthInvalidKey(t *testing.T) {
	handler := wrapOK(authConfig(true, 100, 200))
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "wrong-key").Code)
}

func TestHTTPAuthMissingKey(t *testing.T) {
	handler := wrapOK(authConfig(true, 100, 200))
	assert.Equal(t, http.StatusUnauthorized, doRequest(handler, "").Code)
}

func TestHTTPAuthDisabled(t *testing.T) {
	handler := wrapOK(authConfig(false, 100, 200))
	assert.Equal(t, http.StatusOK, doRequest(handler, "").Code)
}

func TestHTTPAuthRateLimit(t *testing.T) {
	handler := wrapOK(authConfig(true, 1, 2))

	assert.Equal(t, http.StatusOK, doRequest(handler, "valid-key").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "valid-key").Code)
	// Burst of two exhausted; the third request in the same instant fails.
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "valid-key").Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(config.APIRateLimitConfig{RPS: 0})
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("anyone"))
	}
}
