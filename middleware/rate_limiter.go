// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	skipPrefixes   []string
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:           make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		mu:            &sync.RWMutex{},
		defaultLimit:  rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			// Public landing page form
			"/api/registrations": {limit: rate.Every(2 * time.Second), burst: 5},
			// Printed codes get scanned in bursts at events
			"/qr/:slug":              {limit: rate.Every(20 * time.Millisecond), burst: 100},
			"/api/email/send":        {limit: rate.Every(time.Second), burst: 10},
			"/api/payments/intent":   {limit: rate.Every(time.Second), burst: 5},
			"/api/payments/checkout": {limit: rate.Every(time.Second), burst: 5},
			"/api/upload":            {limit: rate.Every(time.Second), burst: 10},
		},
		skipPrefixes: []string{"/uploads/", "/metrics", "/health"},
	}

	go limiter.cleanupBlockedIPs()

	return limiter
}

func (r *RateLimiter) cleanupBlockedIPs() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		now := time.Now()
		for ip, blockUntil := range r.blockedIPs {
			if now.After(blockUntil) {
				r.resetLocked(ip)
			}
		}
		r.mu.Unlock()
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestPath := c.Request().URL.Path
			for _, prefix := range r.skipPrefixes {
				if strings.HasPrefix(requestPath, prefix) {
					return next(c)
				}
			}

			ip := c.RealIP()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if time.Now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, blockUntil)
				}
				r.resetLocked(ip)
			}
			r.mu.Unlock()

			limit, burst := r.defaultLimit, r.defaultBurst
			if el, ok := r.endpointLimits[c.Path()]; ok {
				limit, burst = el.limit, el.burst
			}

			// Limiters are per IP and route so one busy endpoint does not starve the rest
			if !r.getLimiter(ip+"|"+c.Path(), limit, burst).Allow() {
				blockUntil := time.Now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()

				logging.Warn("Rate limit exceeded, blocking IP", "ip", ip, "path", c.Path())
				return tooManyRequests(c, blockUntil)
			}

			return next(c)
		}
	}
}

func (r *RateLimiter) getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.ips[key]
	if !exists {
		limiter = rate.NewLimiter(limit, burst)
		r.ips[key] = limiter
	}
	return limiter
}

// resetLocked forgets the block and every limiter of ip. Callers hold r.mu.
func (r *RateLimiter) resetLocked(ip string) {
	delete(r.blockedIPs, ip)
	for key := range r.ips {
		if strings.HasPrefix(key, ip+"|") {
			delete(r.ips, key)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Time) error {
	c.Response().Header().Set("Retry-After", retryAfter.UTC().Format(http.TimeFormat))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Success: false,
		Error:   "too many requests",
		Data:    map[string]string{"retryAfter": retryAfter.Format(time.RFC3339)},
	})
}
