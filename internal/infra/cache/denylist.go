package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked JWT IDs until their natural expiry.
// Unlike Store, failures here are surfaced: a logout that cannot be
// recorded must not look successful.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func denylistKey(jti string) string {
	return "denylist:" + jti
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // token already expired
	}
	if err := d.client.Set(ctx, denylistKey(jti), "1", ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to record revoked token")
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.client.Get(ctx, denylistKey(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errs.Wrap(err, "failed to check revoked token")
	}
	return true, nil
}

type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   clock.Clock
}

func NewMemoryDenylist(c clock.Clock) *MemoryDenylist {
	return &MemoryDenylist{
		revoked: make(map[string]time.Time),
		clock:   c,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = d.clock.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiry, ok := d.revoked[jti]
	if !ok {
		return false, nil
	}
	if d.clock.Now().After(expiry) {
		delete(d.revoked, jti)
		return false, nil
	}
	return true, nil
}
