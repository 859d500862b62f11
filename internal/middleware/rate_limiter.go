package middleware

import (
	"net/http"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimiter caps requests per client IP inside a rolling window. Counters
// live in process memory; this protects a single node, not a fleet.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	counters := cache.New(window, 2*window)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		count, err := counters.IncrementInt(ip, 1)
		if err != nil {
			counters.Set(ip, 1, cache.DefaultExpiration)
			count = 1
		}
		if count > maxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Too many requests, slow down"))
			return
		}
		c.Next()
	}
}
