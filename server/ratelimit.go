package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimit sheds load once requests arrive faster than the configured
// sustained rate. Single-user deployments rarely hit it, runaway UI polling
// does.
func rateLimit(requestsPerSec float64) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSec), int(requestsPerSec)*2)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"Error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
