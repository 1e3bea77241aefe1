package store

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Locker is a short-lived advisory lock held around registrar mutations
// (brand/campaign create, phone assign/unassign). It closes the window where
// a retried request starts a second external call while the first is still
// in flight and the store's uniqueness constraint is not committed yet.
type Locker interface {
	// Acquire returns true when the lock was taken. A false return means
	// another invocation holds it; callers surface that as a conflict, they
	// do not wait.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLocker SETNX-based lock with TTL so a crashed holder cannot wedge the
// tenant forever.
type RedisLocker struct {
	c *redis.Client
}

func NewRedisLocker(c *redis.Client) *RedisLocker { return &RedisLocker{c: c} }

var _ Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.c.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.c.Del(ctx, key).Err()
}

// MemoryLocker single-process fallback used when Redis is disabled and in
// unit tests.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time // key -> expiry
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: map[string]time.Time{}}
}

var _ Locker = (*MemoryLocker)(nil)

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if expiry, held := l.locks[key]; held && now.Before(expiry) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}
