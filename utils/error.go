package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{Kind: "INTERNAL", Message: "An unexpected error occurred. Please try again later."},
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Kind: kind, Message: message}})
}
