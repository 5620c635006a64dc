// Package session keeps the request-scoped bits of checkout state that
// are cheap to read on every page: the cached cart-item counter and the
// seen-transaction set that absorbs duplicate gateway callbacks. Redis
// is a cache here, never a source of truth — Cart and CartItem rows
// stay authoritative.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cartCountKeyPrefix = "cart:count:"
	txnKeyPrefix       = "vnpay:txn:"
	txnKeyTTL          = 24 * time.Hour
)

type Cache interface {
	CartCount(ctx context.Context, userID string) (int, error)
	SetCartCount(ctx context.Context, userID string, count int) error
	ResetCartCount(ctx context.Context, userID string) error
	// MarkTxnProcessed records a gateway transaction reference the
	// first time it is seen. It returns false when the reference was
	// already recorded, which means a duplicate callback delivery.
	MarkTxnProcessed(ctx context.Context, txnRef string) (bool, error)
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) CartCount(ctx context.Context, userID string) (int, error) {
	n, err := r.client.Get(ctx, cartCountKeyPrefix+userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *RedisCache) SetCartCount(ctx context.Context, userID string, count int) error {
	return r.client.Set(ctx, cartCountKeyPrefix+userID, count, 0).Err()
}

func (r *RedisCache) ResetCartCount(ctx context.Context, userID string) error {
	return r.client.Set(ctx, cartCountKeyPrefix+userID, 0, 0).Err()
}

func (r *RedisCache) MarkTxnProcessed(ctx context.Context, txnRef string) (bool, error) {
	ok, err := r.client.SetNX(ctx, txnKeyPrefix+txnRef, 1, txnKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
