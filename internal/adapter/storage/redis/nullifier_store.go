package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cbdc-settlement/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// NullifierStore implements ports.NullifierStore with SET NX, which makes the
// registry shared by every node pointed at the same Redis.
type NullifierStore struct {
	client *goredis.Client
	prefix string
}

// NewNullifierStore creates a new Redis-backed nullifier store. Keys never expire.
func NewNullifierStore(client *goredis.Client, namespace string) *NullifierStore {
	return &NullifierStore{
		client: client,
		prefix: "nullifier:" + namespace + ":",
	}
}

// Insert registers n unless its value exists, returning the stored record on conflict.
func (s *NullifierStore) Insert(ctx context.Context, n *domain.Nullifier) (bool, *domain.Nullifier, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return false, nil, fmt.Errorf("encode nullifier: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.prefix+n.Value, data, 0).Result()
	if err != nil {
		return false, nil, fmt.Errorf("redis nullifier setnx: %w", err)
	}
	if ok {
		return true, nil, nil
	}

	existing, err := s.Get(ctx, n.Value)
	if err != nil {
		return false, nil, err
	}
	if existing == nil {
		return false, nil, fmt.Errorf("nullifier %s conflicted but is missing", n.Value)
	}
	return false, existing, nil
}

// Get returns the registered nullifier or nil, nil.
func (s *NullifierStore) Get(ctx context.Context, value string) (*domain.Nullifier, error) {
	data, err := s.client.Get(ctx, s.prefix+value).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis nullifier get: %w", err)
	}

	n := &domain.Nullifier{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("decode nullifier: %w", err)
	}
	return n, nil
}
