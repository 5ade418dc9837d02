package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter throttles the generation endpoints. The system is
// single-tenant, so one limiter covers everything: generation is expensive
// against the TTS providers regardless of who asks.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing r events per second with the
// given burst.
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(r, b)}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
