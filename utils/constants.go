// File: utils/constants.go
package utils

// Gin context keys set by the auth and request logger middleware.
const (
	ContextUserIDKey = "userID"
	ContextTokenKey  = "authToken"
	ContextLoggerKey = "logger"
)
