package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	minLimiterIdle = time.Minute
	maxLimiterIdle = 24 * time.Hour
)

// IPRateLimiter stores a rate limiter for each IP address. Limiters unused for
// longer than it takes their bucket to refill are evicted.
type IPRateLimiter struct {
	limiters *cache.Cache
	r        rate.Limit
	b        int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return newIPRateLimiter(r, b, limiterIdle(r, b))
}

func newIPRateLimiter(r rate.Limit, b int, idle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: cache.New(idle, idle),
		r:        r,
		b:        b,
	}
}

// limiterIdle is the time an untouched bucket needs to fill up again. A limiter
// evicted after that long behaves exactly like a fresh one.
func limiterIdle(r rate.Limit, b int) time.Duration {
	if r <= 0 || r == rate.Inf {
		return minLimiterIdle
	}
	refill := time.Duration(float64(b) / float64(r) * float64(time.Second))
	if float64(b)/float64(r) > maxLimiterIdle.Seconds() {
		refill = maxLimiterIdle
	}
	return max(minLimiterIdle, refill)
}

// GetLimiter returns the rate limiter for an IP address, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if cached, found := i.limiters.Get(ip); found {
		limiter := cached.(*rate.Limiter)
		i.limiters.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	if err := i.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// Another request stored one first.
		if cached, found := i.limiters.Get(ip); found {
			return cached.(*rate.Limiter)
		}
	}
	return limiter
}

// Len returns the number of tracked IP addresses.
func (i *IPRateLimiter) Len() int {
	return i.limiters.ItemCount()
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) fiber.Handler {
	limiter := NewIPRateLimiter(r, b)
	return func(c *fiber.Ctx) error {
		if !limiter.GetLimiter(c.IP()).Allow() {
			return fiber.ErrTooManyRequests
		}
		return c.Next()
	}
}
