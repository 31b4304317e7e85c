package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"spin-raffle-backend/internal/common/errors"
)

const adminKey = "admin"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// TokenMatches compares tokens in constant time. An empty token never matches.
func TokenMatches(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// RequireAdmin rejects requests whose bearer token is not the admin session token.
func RequireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !TokenMatches(BearerToken(c), token) {
			_ = c.Error(errors.NewUnauthorizedError())
			c.Abort()
			return
		}

		c.Set(adminKey, true)
		c.Next()
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, else "unknown".
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}

// UserAgent returns the User-Agent header or "unknown".
func UserAgent(c *gin.Context) string {
	if ua := c.Request.UserAgent(); ua != "" {
		return ua
	}
	return "unknown"
}
