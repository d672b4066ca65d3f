package cache

import (
	"context"
	"time"
)

// Store is the read-through cache port. Implementations must treat every
// backend failure as a miss or no-op; callers never see cache errors and
// always fall back to the source of truth.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}
