package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mergington/activities/internal/model"
)

// RateLimiter is a per-client token bucket limiter
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int           // Requests per window
	window   time.Duration // Time window
	burst    int           // Extra tokens above rate
	cleanup  time.Duration // Interval for dropping idle buckets
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate    int           // default 100
	Window  time.Duration // default 1 minute
	Burst   int           // default 20
	Cleanup time.Duration // default 5 minutes
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate == 0 {
		cfg.Rate = 100
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst == 0 {
		cfg.Burst = 20
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		burst:    cfg.Burst,
		cleanup:  cfg.Cleanup,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup loop. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// Limit reports the configured requests per window
func (rl *RateLimiter) Limit() int {
	return rl.rate
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanupExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.lastReset.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Allow takes a token from key's bucket if one is available
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	capacity := rl.rate + rl.burst

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastReset: now}
		rl.buckets[key] = b
	} else if elapsed := now.Sub(b.lastReset); elapsed >= rl.window {
		b.tokens = capacity
		b.lastReset = now
	} else if refill := int(float64(rl.rate) * float64(elapsed) / float64(rl.window)); refill > 0 {
		b.tokens = min(b.tokens+refill, capacity)
		b.lastReset = now
	}

	resetTime = b.lastReset.Add(rl.window)
	if b.tokens == 0 {
		return false, 0, resetTime
	}
	b.tokens--
	return true, b.tokens, resetTime
}

// RateLimit returns a middleware that limits requests per client IP.
// Safe methods are never limited: reads and event streams stay available to
// clients sharing an address.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetTime := limiter.Allow(ClientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				retryAfter := max(int(resetTime.Sub(limiter.now()).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				problem := model.NewRateLimitError(retryAfter)
				problem.Instance = r.URL.Path
				problem.WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
