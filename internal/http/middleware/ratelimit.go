// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements a lightweight, in-memory, token-bucket rate limiter
// with per-identity buckets and opportunistic garbage collection.
//
// Features:
//   - Per-key token buckets using golang.org/x/time/rate
//   - Fixed windows: at most N requests per window (default 100 per 15
//     minutes); the bucket is refilled when the window ends
//   - RateLimit-Limit / RateLimit-Remaining headers on every response and
//     Retry-After on rejections
//   - Rejections are raised as apierr.RateLimited so the error chain renders
//     the standard envelope
//   - Best-effort cleanup of idle buckets to bound memory
//
// Notes:
//   - This limiter is process-local. For horizontally scaled deployments,
//     prefer a distributed limiter to enforce global limits.
//   - The limiter is intended for edge-level abuse control; it is not an
//     authorization mechanism.
package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-api-starter/internal/apierr"
)

const (
	headerRateLimit     = "RateLimit-Limit"
	headerRateRemaining = "RateLimit-Remaining"
	headerRateReset     = "RateLimit-Reset"
	headerRetryAfter    = "Retry-After"

	defaultVisitorTTL = 10 * time.Minute
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// KeyByClientIP keys buckets by the client IP as resolved by Gin (honouring
// the engine's trusted proxies).
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// visitor holds a single rate limiter and the last time it was seen.
// resetAt is zero for plain token buckets.
type visitor struct {
	limiter  *rate.Limiter
	resetAt  time.Time
	lastSeen time.Time
}

// decision is the outcome of one rate-limit check.
type decision struct {
	allowed    bool
	remaining  int
	resetIn    int // seconds until the window ends; 0 without windows
	retryAfter int // seconds; only set when denied
}

// RateLimiter implements a per-key token-bucket rate limiter, optionally
// reset at fixed window boundaries.
//
// Buckets are created on demand and stored in a map guarded by a mutex. Idle
// buckets are evicted after a TTL via opportunistic cleanup during lookups.
//
// This type is safe for concurrent use.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	window   time.Duration
	keyFn    keyFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter constructs a RateLimiter with the given tokens-per-second
// and burst size, keyed by keyFn. A burst <= 0 is coerced to 1.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      defaultVisitorTTL,
	}
}

// NewWindowRateLimiter allows at most max requests per window for each key.
//
// Each window starts with a full bucket of max tokens that refills at one
// token per window, so less than one token comes back before the window
// ends. When it ends the bucket is replaced by a full one.
func NewWindowRateLimiter(max int, window time.Duration, keyFn keyFunc) *RateLimiter {
	if window <= 0 {
		window = time.Second
	}
	rl := NewRateLimiter(float64(rate.Every(window)), max, keyFn)
	rl.window = window
	if window > rl.ttl {
		rl.ttl = window
	}
	return rl
}

// take consumes one token for key at now. Idle entries are collected every
// ~5000 lookups, before the requested visitor is touched so an expired
// bucket is not refreshed.
func (rl *RateLimiter) take(key string, now time.Time) decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	v, ok := rl.visitors[key]
	if !ok || (rl.window > 0 && !now.Before(v.resetAt)) {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		if rl.window > 0 {
			v.resetAt = now.Add(rl.window)
		}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	d := decision{allowed: v.limiter.AllowN(now, 1)}
	if rem := int(math.Floor(v.limiter.TokensAt(now))); rem > 0 {
		d.remaining = rem
	}
	if rl.window > 0 {
		d.resetIn = ceilSeconds(v.resetAt.Sub(now))
	}
	if !d.allowed {
		d.retryAfter = rl.retryAfter(d)
	}
	return d
}

// retryAfter is the whole number of seconds until the next request can pass:
// the end of the window, or one refilled token without windows.
func (rl *RateLimiter) retryAfter(d decision) int {
	if rl.window > 0 {
		return d.resetIn
	}
	if rl.rps <= 0 {
		return 1
	}
	// Tolerate float noise so 0.1 rps yields 10, not 11.
	secs := int(math.Ceil(1/float64(rl.rps) - 1e-9))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func ceilSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds() - 1e-9))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Handler returns a Gin middleware that enforces per-key limits.
//
// Every response carries RateLimit-Limit (the burst) and RateLimit-Remaining,
// plus RateLimit-Reset for windowed limiters. A rejected request gets
// Retry-After and an apierr.RateLimited error, which the error chain turns
// into a 429 envelope.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	limit := strconv.Itoa(rl.burst)
	return func(c *gin.Context) {
		d := rl.take(rl.keyFn(c), time.Now())

		c.Header(headerRateLimit, limit)
		c.Header(headerRateRemaining, strconv.Itoa(d.remaining))
		if d.resetIn > 0 {
			c.Header(headerRateReset, strconv.Itoa(d.resetIn))
		}

		if d.allowed {
			c.Next()
			return
		}

		c.Header(headerRetryAfter, strconv.Itoa(d.retryAfter))
		_ = c.Error(apierr.RateLimited())
		c.Abort()
	}
}
