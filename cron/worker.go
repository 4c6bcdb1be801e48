package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wanderly/config"
	"wanderly/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Invalidator marks a user's cached cart stale.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// RedisOpt is the queue connection shared by the worker and the webhook's client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCartWorker runs the cart invalidation worker in background and returns
// the server so the caller can shut it down.
func InitCartWorker(inv Invalidator, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCartInvalidate, handleCartInvalidateTask(inv, logger))

	go func() {
		logger.Info("starting cart invalidation worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("cart worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("cart worker gave up; invalidations will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

func handleCartInvalidateTask(inv Invalidator, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CartInvalidatePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.UserID == "" {
			logger.Warn("dropping cart invalidate task with invalid payload", zap.ByteString("payload", task.Payload()))
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		if err := inv.Invalidate(ctx, p.UserID); err != nil {
			logger.Error("cart invalidation failed", zap.String("userID", p.UserID), zap.Error(err))
			return err
		}
		logger.Debug("cart invalidated", zap.String("userID", p.UserID), zap.String("reason", p.Reason))
		return nil
	}
}
