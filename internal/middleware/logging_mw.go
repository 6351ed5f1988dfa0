package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware emits one structured log line per request.
// 5xx logs at error, 4xx at warn, everything else at info.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		durationMs := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)

		args := []any{
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Float64("duration_ms", durationMs),
		}
		if userID := c.GetString(AuthUserKey); userID != "" {
			args = append(args, slog.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			args = append(args, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		logger.Log(c.Request.Context(), level, "http_request", args...)
	}
}
