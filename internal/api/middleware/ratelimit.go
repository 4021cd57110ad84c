package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a single token bucket shared by all requests. The
// backend serves one user, so there is no per-client bookkeeping; the
// bucket exists to keep a misbehaving UI from hammering the model API.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
	rate     float64 // tokens per second
	burst    float64 // max tokens
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(burst),
		lastSeen: time.Now(),
		rate:     rps,
		burst:    float64(burst),
	}
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.mu.Lock()
		elapsed := time.Since(rl.lastSeen).Seconds()
		rl.tokens += elapsed * rl.rate
		if rl.tokens > rl.burst {
			rl.tokens = rl.burst
		}
		rl.lastSeen = time.Now()

		if rl.tokens < 1 {
			rl.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}

		rl.tokens--
		rl.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}
