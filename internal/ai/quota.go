package ai

import (
	"context"
	"sync"
	"time"

	"coverletter-backend/internal/shared/cache"
)

const (
	DefaultQuotaCooldown = time.Hour
	quotaKey             = "ai:quota_exceeded"
)

// QuotaFlag remembers that the provider reported exhausted quota. A set
// flag expires on its own after the cooldown.
type QuotaFlag interface {
	Set(ctx context.Context) error
	IsSet(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// MemoryQuota is a process-local QuotaFlag.
type MemoryQuota struct {
	Cooldown time.Duration
	Now      func() time.Time

	mu    sync.Mutex
	until time.Time
}

func NewMemoryQuota(cooldown time.Duration) *MemoryQuota {
	if cooldown <= 0 {
		cooldown = DefaultQuotaCooldown
	}
	return &MemoryQuota{Cooldown: cooldown}
}

func (q *MemoryQuota) now() time.Time {
	if q.Now != nil {
		return q.Now()
	}
	return time.Now()
}

func (q *MemoryQuota) Set(context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.until = q.now().Add(q.Cooldown)
	return nil
}

func (q *MemoryQuota) IsSet(context.Context) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.until.IsZero() && q.now().Before(q.until), nil
}

func (q *MemoryQuota) Clear(context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.until = time.Time{}
	return nil
}

// RedisQuota shares the flag across API instances.
type RedisQuota struct {
	Redis    *cache.Redis
	Cooldown time.Duration
}

func (q *RedisQuota) Set(ctx context.Context) error {
	cooldown := q.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultQuotaCooldown
	}
	return q.Redis.Set(ctx, quotaKey, "1", cooldown)
}

func (q *RedisQuota) IsSet(ctx context.Context) (bool, error) {
	return q.Redis.Exists(ctx, quotaKey)
}

func (q *RedisQuota) Clear(ctx context.Context) error {
	return q.Redis.Delete(ctx, quotaKey)
}

// NewQuotaFlag prefers Redis and degrades to memory when it is unreachable.
func NewQuotaFlag(r *cache.Redis, cooldown time.Duration) QuotaFlag {
	if r.Available() {
		return &RedisQuota{Redis: r, Cooldown: cooldown}
	}
	return NewMemoryQuota(cooldown)
}
