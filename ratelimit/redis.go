package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis connection and key prefix
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string // defaults to "ratelimit:"
	Max      int
	Window   time.Duration
}

// RedisLimiter shares counters across API replicas using INCR + EXPIRE.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

// NewRedisLimiter creates a limiter and verifies connectivity
func NewRedisLimiter(cfg RedisConfig) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return newRedisLimiter(client, cfg), nil
}

func newRedisLimiter(client *redis.Client, cfg RedisConfig) *RedisLimiter {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(cfg.Max), window: cfg.Window}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	// First hit opens the window.
	if count == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= r.max, nil
}

// Close closes the underlying Redis client
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
