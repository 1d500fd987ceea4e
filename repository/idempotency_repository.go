package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore maps client-supplied idempotency keys to the order they
// produced, so a retried checkout returns the original order instead of
// creating a duplicate.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderID string, ttl time.Duration) error
}

type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (r *RedisIdempotencyStore) key(k string) string {
	return "idem:checkout:" + k
}

// Get returns the stored order ID, or "" when the key is unknown.
func (r *RedisIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisIdempotencyStore) Set(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), orderID, ttl).Err()
}
