// File: services/remote/client.go
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID makes backend calls made with ctx carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger

	// BreakerFailures is the number of consecutive transport or 5xx failures
	// that opens the circuit. Zero uses the default of 5.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open. Zero uses 30s.
	BreakerCooldown time.Duration
}

// Client talks to the marketplace REST backend on behalf of one end user per call.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "marketplace-api",
		Timeout: opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		logger:  logger,
	}
}

// do sends one authenticated request. A nil body sends no payload; a nil
// result discards the response body.
func (c *Client) do(ctx context.Context, token, method, path string, body, result interface{}) error {
	if token == "" {
		return ErrNoAuthToken
	}

	requestID := requestIDFrom(ctx)
	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(requestIDHeader, requestID)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, apiErrorFrom(resp)
		}
		return resp, nil
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.logger.Debug("backend returned error",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("requestID", requestID),
				zap.Int("status", apiErr.StatusCode),
				zap.String("message", apiErr.Message))
			return apiErr
		}
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("requestID", requestID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	resp := out.(*resty.Response)
	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func apiErrorFrom(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
