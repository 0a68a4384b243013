package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter throttles per client IP; login and session endpoints get the
// tightest limits.
type RateLimiter struct {
	limiters    map[string]*rate.Limiter
	lastSeen    map[string]time.Time
	mutex       sync.Mutex
	rate        rate.Limit
	burst       int
	ttl         time.Duration
	lastCleanup time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = limiter
	}
	l.lastSeen[ip] = time.Now()
	l.cleanup()
	return limiter.Allow()
}

// cleanup drops idle entries, at most once per minute.
func (l *RateLimiter) cleanup() {
	if l.ttl == 0 || time.Since(l.lastCleanup) < time.Minute {
		return
	}
	l.lastCleanup = time.Now()
	cutoff := time.Now().Add(-l.ttl)
	for ip, last := range l.lastSeen {
		if last.Before(cutoff) {
			delete(l.lastSeen, ip)
			delete(l.limiters, ip)
		}
	}
}
