package paystack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/gigboard-backend/pkg/redis"
)

// IdempotencyScope namespaces Paystack guard keys.
const IdempotencyScope = "paystack"

// IdempotencyGuard remembers processed (event, reference) pairs in Redis so
// provider retries short-circuit before reaching the database.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &IdempotencyGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark reports whether the key was already marked, marking it if not.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("guard key is required")
	}
	set, err := g.store.SetNX(ctx, g.store.IdempotencyKey(IdempotencyScope, key), "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

func (g *IdempotencyGuard) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("guard key is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(IdempotencyScope, key))
}

func guardKey(eventType, reference string) string {
	return eventType + ":" + reference
}
