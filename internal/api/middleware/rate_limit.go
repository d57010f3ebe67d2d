package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/redis"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

// RateLimit sliding-window limit per client IP and route, kept in Redis.
// Without Redis, or when Redis fails, requests pass.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10006, "Demasiados intentos, espere un momento")
			c.Abort()
			return
		}

		c.Next()
	}
}
