package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bahath/jobz-web/internal/core/ports"
)

// SessionStorage is the durable storage of one browser, backed by Redis.
// Key format: jobz:storage:<browser_id>:<key>
type SessionStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewStorageFactory returns a factory that scopes storage to a browser id.
// Every write refreshes the key's ttl; a ttl <= 0 keeps keys forever.
func NewStorageFactory(client *redis.Client, ttl time.Duration) ports.StorageFactory {
	return func(browserID string) ports.SessionStorage {
		return &SessionStorage{client: client, namespace: browserID, ttl: ttl}
	}
}

// GetItem returns the stored value or ports.ErrStorageKeyNotFound.
func (s *SessionStorage) GetItem(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrStorageKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// SetItem stores value under key.
func (s *SessionStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *SessionStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) key(key string) string {
	return fmt.Sprintf("jobz:storage:%s:%s", s.namespace, key)
}
