// Package cache wraps Redis for small shared flags. A Redis that cannot be
// reached at startup is bypassed rather than failing the caller.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"coverletter-backend/internal/shared/telemetry"
)

var ErrUnavailable = errors.New("redis unavailable")

type Redis struct {
	client *redis.Client

	warnedUnavailable atomic.Bool
}

// NewRedis connects to addr. An empty addr or a failed ping yields a Redis
// that reports Available() == false.
func NewRedis(addr, password string) *Redis {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return &Redis{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		telemetry.Warn("cache.redis_unavailable", map[string]any{"addr": addr, "error": err})
		_ = client.Close()
		return &Redis{}
	}
	return &Redis{client: client}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		telemetry.Warn("cache.redis_error", map[string]any{"error": err})
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

// Set stores value under key for ttl.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !r.Available() {
		return ErrUnavailable
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Exists reports whether key is present.
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	if !r.Available() {
		return false, ErrUnavailable
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return ErrUnavailable
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}
