// Package ratelimit implements fixed-window request limits backed by Redis
// or process memory.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter counts hits per key inside a fixed window.
type Limiter interface {
	// Allow records a hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Middleware limits requests per client IP. Limiter errors let the request through.
func Middleware(l Limiter, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("[RateLimit] limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
				"code":    "rate_limited",
			})
			return
		}
		c.Next()
	}
}
