package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"skimr/config"

	"github.com/gin-gonic/gin"
)

// snapshotRoutes carry full HTML documents and get the larger body limit.
var snapshotRoutes = map[string]bool{
	"/api/extract": true,
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("[API] panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("[API] request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		c.Next()
	}
}

// bodyLimit caps request bodies by route. The route is already matched when
// global middleware runs, so FullPath is available.
func bodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}
		limit := int64(config.JSONBodyLimit)
		if snapshotRoutes[c.FullPath()] {
			limit = config.SnapshotBodyLimit
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// bindJSON decodes the body into v. On failure it writes the error response
// and returns false; oversized bodies get 413, anything else 400 with message.
func bindJSON(c *gin.Context, v any, message string) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithError(c, http.StatusRequestEntityTooLarge, "Request body too large", "payload_too_large")
		return false
	}
	slog.Debug("[API] invalid request body", "path", c.FullPath(), "error", err)
	abortWithError(c, http.StatusBadRequest, message, "invalid_request")
	return false
}
