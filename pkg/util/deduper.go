package util

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper reports whether a key is seen for the first time within a window.
type Deduper interface {
	AcquireOnce(ctx context.Context, key string) bool
	Release(ctx context.Context, key string)
}

// RedisDeduper claims keys with SETNX so every replica shares the window.
type RedisDeduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewRedisDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDeduper {
	return &RedisDeduper{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "dedup:",
		logger: logger,
	}
}

// AcquireOnce returns true the first time key is seen within the window.
// When Redis is unavailable the submission is allowed through.
func (d *RedisDeduper) AcquireOnce(ctx context.Context, key string) bool {
	fullKey := d.prefix + key

	ok, err := d.rdb.SetNX(ctx, fullKey, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("dedup_key", fullKey),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated submission", zap.String("dedup_key", fullKey))
	}

	return ok
}

// Release forgets key so the next attempt is not treated as a duplicate.
func (d *RedisDeduper) Release(ctx context.Context, key string) {
	if err := d.rdb.Del(ctx, d.prefix+key).Err(); err != nil && d.logger != nil {
		d.logger.Warn("Redis dedup release failed", zap.String("dedup_key", d.prefix+key), zap.Error(err))
	}
}

// MemoryDeduper is the single-process variant.
type MemoryDeduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return NewMemoryDeduperWithClock(ttl, time.Now)
}

func NewMemoryDeduperWithClock(ttl time.Duration, now func() time.Time) *MemoryDeduper {
	return &MemoryDeduper{
		ttl:  ttl,
		now:  now,
		seen: make(map[string]time.Time),
	}
}

func (d *MemoryDeduper) AcquireOnce(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, expires := range d.seen {
		if !now.Before(expires) {
			delete(d.seen, k)
		}
	}

	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = now.Add(d.ttl)
	return true
}

func (d *MemoryDeduper) Release(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}
