// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"wanderly/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient backs the shared cart cache.
var CacheClient *redis.Client

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// InitCache connects the cart cache client and verifies it with a ping.
func InitCache() error {
	client := newRedisClient(config.AppConfig.RedisCacheDB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	CacheClient = client
	return nil
}

// GetCacheClient returns the cart cache client, or nil before InitCache succeeds.
func GetCacheClient() *redis.Client {
	return CacheClient
}
