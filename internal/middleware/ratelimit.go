// ===============================
// internal/middleware/ratelimit.go - Per-IP Fixed Window Rate Limiting
// ===============================

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"videotube/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per key inside a fixed window
type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	now      func() time.Time
}

type visitor struct {
	requests    int
	windowStart time.Time
}

// RateRule picks the limit for a request
type RateRule struct {
	Limit  int
	Window time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow records one request for key and reports whether it fits in the
// window, together with the remaining budget.
func (rl *RateLimiter) Allow(key string, rule RateRule) (bool, int) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists || now.Sub(v.windowStart) >= rule.Window {
		rl.visitors[key] = &visitor{requests: 1, windowStart: now}
		return true, rule.Limit - 1
	}

	if v.requests >= rule.Limit {
		return false, 0
	}
	v.requests++
	return true, rule.Limit - v.requests
}

// Run evicts idle visitors until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup(idle)
		}
	}
}

func (rl *RateLimiter) cleanup(idle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-idle)
	for key, v := range rl.visitors {
		if v.windowStart.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// DefaultRateRule allows fewer writes than reads, and fewer uploads than
// either.
func DefaultRateRule(c *gin.Context) RateRule {
	path := c.Request.URL.Path
	switch {
	case c.Request.Method == http.MethodPost && strings.HasSuffix(path, "/videos"):
		return RateRule{Limit: 20, Window: time.Minute}
	case strings.Contains(path, "/videos"):
		return RateRule{Limit: 100, Window: time.Minute}
	default:
		return RateRule{Limit: 200, Window: time.Minute}
	}
}

// RateLimit keys buckets by client IP and rule limit, so upload and read
// budgets are tracked separately.
func RateLimit(rl *RateLimiter, rule func(*gin.Context) RateRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := rule(c)
		key := c.ClientIP() + "|" + strconv.Itoa(r.Limit)

		allowed, remaining := rl.Allow(key, r)
		c.Header("X-RateLimit-Limit", strconv.Itoa(r.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(r.Window.Seconds())))
			_ = c.Error(apperrors.TooManyRequests("Too many requests, please try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
