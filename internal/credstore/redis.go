package credstore

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mhartig/shopfront/internal/metrics"
)

const redisKeyPrefix = "shopfront:credentials:"

// RedisStore keeps credentials in Redis, for deployments where several
// processes share one session (e.g. a fleet of kiosk frontends).
type RedisStore struct {
	rdb goredis.Cmdable
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store from a URL
// (e.g. "redis://localhost:6379") and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests.
func NewRedisStoreFromClient(rdb goredis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		metrics.CredStoreOpsTotal.WithLabelValues("redis", "get", "ok").Inc()
		return "", false, nil
	}
	if err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("redis", "get", "error").Inc()
		return "", false, fmt.Errorf("redis credential GET failed: %w", err)
	}

	metrics.CredStoreOpsTotal.WithLabelValues("redis", "get", "ok").Inc()
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("redis", "set", "error").Inc()
		return fmt.Errorf("redis credential SET failed: %w", err)
	}
	metrics.CredStoreOpsTotal.WithLabelValues("redis", "set", "ok").Inc()
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}

	if err := s.rdb.Del(ctx, prefixed...).Err(); err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("redis", "delete", "error").Inc()
		return fmt.Errorf("redis credential DEL failed: %w", err)
	}
	metrics.CredStoreOpsTotal.WithLabelValues("redis", "delete", "ok").Inc()
	return nil
}
