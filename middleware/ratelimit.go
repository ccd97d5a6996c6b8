package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rate    rate.Limit
	burst   int
}

// NewIPRateLimiter allows perMinute requests per IP with a burst of the same size.
// perMinute == 0 disables limiting.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	rl := &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		rate:    rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
	}
	if perMinute == 0 {
		rl.rate = rate.Inf
	}
	return rl
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if e, ok := rl.entries[ip]; ok {
		e.lastSeen = now
		return e.limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.entries[ip] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// RunCleanup drops idle limiters until ctx is done.
func (rl *IPRateLimiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *IPRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, e := range rl.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(rl.entries, ip)
		}
	}
}

// RateLimit отвечает 429, когда IP исчерпал свой лимит.
// RemoteAddr должен быть уже нормализован chi RealIP.
func RateLimit(rl *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.getLimiter(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many bracket generation requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
