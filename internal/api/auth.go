package api

import (
	"crypto/subtle"
	"net/http"

	"stolik/internal/config"
	"stolik/internal/metrics"
)

// HTTPAuth checks the API key header against the configured client keys
// and applies a per-client rate limit.
type HTTPAuth struct {
	enabled bool
	header  string
	clients map[string]string // key -> client name
	limiter *rateLimiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	clients := make(map[string]string, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		clients[k.Key] = k.Name
	}
	return &HTTPAuth{
		enabled: cfg.Auth.Enabled,
		header:  cfg.Auth.HeaderAPIKey,
		clients: clients,
		limiter: newRateLimiter(cfg.RateLimit),
	}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := "anonymous"
		if a.enabled {
			name, ok := a.authenticate(r.Header.Get(a.header))
			if !ok {
				metrics.IncHTTP("unauthorized")
				writeError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}
			client = name
		}

		if !a.limiter.Allow(client) {
			metrics.IncHTTP("rate_limited")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) authenticate(presented string) (string, bool) {
	if presented == "" {
		return "", false
	}
	// Compare against every configured key so timing does not reveal
	// whether a prefix matched.
	for key, name := range a.clients {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			return name, true
		}
	}
	return "", false
}
