package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix = "idem:order:create:"

	// pending marks a claim whose order is still being created.
	pending = "__pending__"

	ttl = 24 * time.Hour
)

// redisGuard implements Guard with a SETNX claim per key.
type redisGuard struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisGuard creates a redis-backed idempotency guard.
func NewRedisGuard(client *redis.Client, logger zerolog.Logger) Guard {
	return &redisGuard{
		client: client,
		logger: logger.With().Str("component", "idempotency").Logger(),
	}
}

// Claim attempts to claim key with a single SETNX.
func (g *redisGuard) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, pending, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := g.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		// Claim expired between SETNX and GET; treat as in-flight.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == pending {
		return "", false, nil
	}

	return val, false, nil
}

// Complete records the order id created under a claimed key.
func (g *redisGuard) Complete(ctx context.Context, key, orderID string) error {
	if err := g.client.Set(ctx, keyPrefix+key, orderID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release drops a claimed key after a failed creation.
func (g *redisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// NewClient creates a redis client for the given address.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}
