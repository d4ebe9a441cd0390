package middleware

var NewIPRateLimiterWithIdle = newIPRateLimiter
