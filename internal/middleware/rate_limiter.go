package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jordankom/sofhair/pkg/httputil"
)

// RateLimiter applies one token bucket to the whole instance. The salon runs
// a single small deployment; per-client fairness is the reverse proxy's job.
type RateLimiter struct {
	bucket *rate.Limiter
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{bucket: rate.NewLimiter(limit, burst)}
}

// RateLimit rejects requests over the configured rate with the API's
// standard error envelope.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Error: &httputil.Error{
					Code:    http.StatusTooManyRequests,
					Message: "too many requests, please retry shortly",
				},
			})
			return
		}
		c.Next()
	}
}
