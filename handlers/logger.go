package handlers

import (
	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger prefers the request-scoped logger set by
// middleware.RequestLoggerMiddleware, then the handler's own, then the global one.
func getLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, exists := c.Get(utils.ContextLoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.L()
}
