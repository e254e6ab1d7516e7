package api

import (
	"sync"

	"golang.org/x/time/rate"

	"stolik/internal/config"
)

// rateLimiter keeps one token bucket per API client.
type rateLimiter struct {
	rps      rate.Limit
	burst    int
	limiters sync.Map // client name -> *rate.Limiter
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	return &rateLimiter{
		rps:   rate.Limit(cfg.RPS),
		burst: cfg.Burst,
	}
}

func (l *rateLimiter) Allow(client string) bool {
	if l.rps <= 0 {
		return true
	}
	v, ok := l.limiters.Load(client)
	if !ok {
		v, _ = l.limiters.LoadOrStore(client, rate.NewLimiter(l.rps, l.burst))
	}
	return v.(*rate.Limiter).Allow()
}
