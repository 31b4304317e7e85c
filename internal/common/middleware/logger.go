package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"spin-raffle-backend/internal/common/logger"
)

// Logger writes one structured line per request.
func Logger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		if status >= 500 {
			level = zerolog.ErrorLevel
		} else if status >= 400 {
			level = zerolog.WarnLevel
		}

		logger.Ctx(c.Request.Context()).WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ClientIP(c)).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Msg("Request processed")
	}
}
