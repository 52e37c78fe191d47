package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that applies a process-wide token bucket to
// the routes it wraps. Used on admin endpoints so a runaway script cannot
// hammer cache warmup or bulk refresh.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, retry later",
				"code":  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
