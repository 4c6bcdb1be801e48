package middleware

import (
	"wanderly/services/remote"
	"wanderly/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware tags each request with an id, taken from the
// caller's X-Request-ID or generated, and stores a logger carrying it for the
// handlers. The same id is forwarded on backend calls and echoed back.
func RequestLoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		c.Set(utils.ContextLoggerKey, base.With(
			zap.String("requestID", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		))
		c.Request = c.Request.WithContext(remote.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
