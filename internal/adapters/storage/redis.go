package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/metrics"
)

// RedisStore keeps values in Redis as plain strings.
type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at redisURL
// (e.g. "redis://localhost:6379/0") and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(dialHook{})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// Get implements ports.KeyValueStore.
func (r *RedisStore) Get(ctx context.Context, key string) (value []byte, err error) {
	defer func(start time.Time) { observe(BackendRedis, "get", start, err) }(time.Now())

	value, err = r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("key", key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

// Set implements ports.KeyValueStore. Values never expire.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer func(start time.Time) { observe(BackendRedis, "set", start, err) }(time.Now())

	if err = r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete implements ports.KeyValueStore.
func (r *RedisStore) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { observe(BackendRedis, "delete", start, err) }(time.Now())

	if err = r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Close implements ports.KeyValueStore.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// Name implements ports.HealthChecker.
func (r *RedisStore) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker.
func (r *RedisStore) Check(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return domain.NewUnavailableError("redis", err.Error())
	}

	return nil
}

// dialHook counts failed connection attempts. Command metrics are recorded by
// the store methods themselves.
type dialHook struct{}

var _ redis.Hook = dialHook{}

func (dialHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			metrics.RedisConnectionErrors.Inc()
		}
		return conn, err
	}
}

func (dialHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (dialHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
