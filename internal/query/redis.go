package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "minishop:query"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// RedisShared stores query results in Redis so several storefront replicas
// share one catalog round-trip per key.
type RedisShared struct {
	store cmdable
	raw   *redis.Client
}

// NewRedisShared connects to url (redis://...) and verifies the connection.
func NewRedisShared(ctx context.Context, url string) (*RedisShared, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisShared{store: raw, raw: raw}, nil
}

func (r *RedisShared) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	b, err := r.store.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisShared) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	return r.store.Set(ctx, redisKey(key), value, ttl).Err()
}

func (r *RedisShared) Ping(ctx context.Context) error {
	return r.store.Ping(ctx).Err()
}

func (r *RedisShared) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func redisKey(key Key) string {
	return keyNamespace + ":" + string(key)
}
