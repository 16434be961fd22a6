package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AckCache implements ports.IdempotencyCache for settlement acks, so a
// redelivered transaction is answered without touching the ledger.
type AckCache struct {
	client *goredis.Client
	prefix string
}

// NewAckCache creates a new Redis-backed ack cache.
func NewAckCache(client *goredis.Client) *AckCache {
	return &AckCache{
		client: client,
		prefix: "settlement-ack:",
	}
}

// Get returns the cached ack JSON, or nil, nil if the key does not exist.
func (c *AckCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis ack get: %w", err)
	}
	return val, nil
}

// Set stores an ack with TTL.
func (c *AckCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis ack set: %w", err)
	}
	return nil
}
