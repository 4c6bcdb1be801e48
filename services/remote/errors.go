package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoAuthToken is returned before any request is sent when the caller has no token.
var ErrNoAuthToken = errors.New("no auth token")

// APIError is a non-2xx response from the marketplace backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsTransportError reports whether err happened before any HTTP response was
// received: connection failures, timeouts, an open circuit breaker.
func IsTransportError(err error) bool {
	if err == nil || errors.Is(err, ErrNoAuthToken) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

type errorBody struct {
	Message string `json:"message"`
}
