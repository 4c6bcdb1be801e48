// File: services/cart/redis_cache.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"wanderly/models"

	"github.com/go-redis/redis/v8"
)

const (
	fieldData      = "data"
	fieldFetchedAt = "fetchedAt"
	fieldStale     = "stale"
	fieldGen       = "gen"
)

// setIfGeneration writes the snapshot only when the stored generation still
// matches ARGV[1]. A missing gen field counts as 0.
var setIfGeneration = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'gen') or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'fetchedAt', ARGV[3], 'stale', '0')
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// invalidate bumps the generation, marks an existing snapshot stale and
// always leaves the key with a TTL.
var invalidate = redis.NewScript(`
redis.call('HINCRBY', KEYS[1], 'gen', 1)
if redis.call('HEXISTS', KEYS[1], 'data') == 1 then
	redis.call('HSET', KEYS[1], 'stale', '1')
end
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

// RedisCartCache shares snapshots between gateway instances. Each user is one
// hash at cart:<userID> that expires after ttl.
type RedisCartCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartCache(client *redis.Client, ttl time.Duration) *RedisCartCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisCartCache{client: client, ttl: ttl}
}

func (r *RedisCartCache) Get(ctx context.Context, userID string) (*CachedCart, error) {
	fields, err := r.client.HGetAll(ctx, cacheKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	data, ok := fields[fieldData]
	if !ok {
		return nil, ErrCacheMiss
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		// A corrupt entry is as good as none.
		return nil, ErrCacheMiss
	}
	fetchedAt, _ := time.Parse(time.RFC3339Nano, fields[fieldFetchedAt])

	return &CachedCart{
		Cart:      &cart,
		FetchedAt: fetchedAt,
		Stale:     fields[fieldStale] == "1",
	}, nil
}

func (r *RedisCartCache) Generation(ctx context.Context, userID string) (uint64, error) {
	gen, err := r.client.HGet(ctx, cacheKey(userID), fieldGen).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisCartCache) Set(ctx context.Context, userID string, cart *models.Cart, gen uint64) (bool, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return false, err
	}
	stored, err := setIfGeneration.Run(ctx, r.client, []string{cacheKey(userID)},
		strconv.FormatUint(gen, 10),
		string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
		r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (r *RedisCartCache) Invalidate(ctx context.Context, userID string) error {
	return invalidate.Run(ctx, r.client, []string{cacheKey(userID)}, r.ttl.Milliseconds()).Err()
}
