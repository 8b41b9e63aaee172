package auth

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is the gin context key holding the authenticated user id.
const ContextUserIDKey = "userID"

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's id under ContextUserIDKey.
func RequireAuth(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := v.Verify(tokenFromHeader(c.GetHeader("Authorization")))
		if err != nil {
			authErr := ErrInvalidToken
			errors.As(err, &authErr)
			slog.Debug("[Auth] rejected request", "path", c.Request.URL.Path, "code", authErr.Code)
			c.AbortWithStatusJSON(authErr.Status, gin.H{
				"success": false,
				"error":   authErr.Message,
				"code":    authErr.Code,
			})
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// tokenFromHeader returns the token of a "Bearer <token>" header. Any other
// non-empty header is returned whole so it fails verification as invalid.
func tokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	return header
}

// UserID returns the id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
