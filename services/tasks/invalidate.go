package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

const TypeCartInvalidate = "cart:invalidate"

// CartInvalidatePayload names the user whose cached cart must be re-fetched.
type CartInvalidatePayload struct {
	UserID string `json:"userId"`
	Reason string `json:"reason,omitempty"`
}

func NewCartInvalidateTask(payload CartInvalidatePayload) (*asynq.Task, []asynq.Option, error) {
	if payload.UserID == "" {
		return nil, nil, errors.New("cart invalidate task: missing user id")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCartInvalidate, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}

	return task, opts, nil
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsyncInvalidator hands cart invalidations to the worker queue instead of
// touching the cache inline.
type AsyncInvalidator struct {
	client taskEnqueuer
	reason string
}

func NewAsyncInvalidator(client *asynq.Client, reason string) *AsyncInvalidator {
	return &AsyncInvalidator{client: client, reason: reason}
}

func (a *AsyncInvalidator) Invalidate(ctx context.Context, userID string) error {
	task, opts, err := NewCartInvalidateTask(CartInvalidatePayload{UserID: userID, Reason: a.reason})
	if err != nil {
		return err
	}
	_, err = a.client.EnqueueContext(ctx, task, opts...)
	return err
}
