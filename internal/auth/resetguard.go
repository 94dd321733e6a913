package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetGuard records consumed reset token ids so each can be redeemed once.
type ResetGuard interface {
	// Consume marks id as used until ttl elapses. It returns false when id was already used.
	Consume(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Release forgets a consumed id so the token can be redeemed again.
	Release(ctx context.Context, id string) error
}

const resetKeyPrefix = "nebula:reset:"

// RedisResetGuard stores consumed ids in redis with SET NX.
type RedisResetGuard struct {
	client *redis.Client
}

func NewRedisResetGuard(client *redis.Client) *RedisResetGuard {
	return &RedisResetGuard{client: client}
}

func (g *RedisResetGuard) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	return g.client.SetNX(ctx, resetKeyPrefix+id, 1, ttl).Result()
}

func (g *RedisResetGuard) Release(ctx context.Context, id string) error {
	return g.client.Del(ctx, resetKeyPrefix+id).Err()
}

// MemoryResetGuard keeps consumed ids in process memory.
type MemoryResetGuard struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func NewMemoryResetGuard() *MemoryResetGuard {
	return &MemoryResetGuard{used: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryResetGuard) Consume(_ context.Context, id string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, expires := range g.used {
		if now.After(expires) {
			delete(g.used, key)
		}
	}
	if _, ok := g.used[id]; ok {
		return false, nil
	}
	g.used[id] = now.Add(ttl)
	return true, nil
}

func (g *MemoryResetGuard) Release(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.used, id)
	return nil
}
