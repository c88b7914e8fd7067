package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/dispenser/internal/core"
)

// RedisStore keeps each cart under its CartKey with a sliding expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a client. A ttl of zero keeps carts forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) (string, error) {
	id, err := sessionUUID(sessionID)
	if err != nil {
		return "", err
	}
	return core.CartKey(id.String()), nil
}

// Load returns the stored cart document.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save stores the cart document and restarts its expiry.
func (s *RedisStore) Save(ctx context.Context, sessionID string, data []byte) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Delete removes the cart key.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
