package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps an Idempotency-Key to the task it created.
// Key format: idem:todos:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Keys expire after ttl, or 24h when ttl <= 0.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the task id recorded for key, or "" if the key is unknown.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember records taskID for key unless the key is already taken.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, taskID string) error {
	if err := s.client.SetNX(ctx, s.key(ownerID, key), taskID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:todos:%s:%s", ownerID, key)
}
