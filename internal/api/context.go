package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"resumeKit/internal/api/middleware"
)

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, v > 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}

// requestLogger prefers the request-scoped logger and falls back to base.
func requestLogger(c *gin.Context, base *slog.Logger) *slog.Logger {
	if logger, ok := middleware.RequestLogger(c); ok {
		return logger
	}
	if base != nil {
		return base
	}
	return slog.Default()
}
