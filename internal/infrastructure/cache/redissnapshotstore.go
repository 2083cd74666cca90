package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/templink/internal/domain/templink"
)

// DefaultSnapshotKey is the Redis key used when none is configured.
const DefaultSnapshotKey = "templink:snapshot"

// RedisSnapshotStore keeps the encoded link snapshot under a single Redis key.
type RedisSnapshotStore struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotStore creates a new RedisSnapshotStore instance
func NewRedisSnapshotStore(client *redis.Client, key string) *RedisSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisSnapshotStore{
		client: client,
		key:    key,
	}
}

// Save replaces the stored snapshot. The key has no TTL; expired links are
// dropped on restore instead.
func (s *RedisSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in redis: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, templink.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to retrieve snapshot from redis: %w", err)
	}
	return data, nil
}

// Key returns the Redis key the snapshot is stored under.
func (s *RedisSnapshotStore) Key() string {
	return s.key
}
