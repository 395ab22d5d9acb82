package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/card-advisor/internal/types"
)

// RedisStore keeps session profiles in Redis, letting multiple advisor
// instances share sessions. Profiles are stored as JSON under a key prefix
// with an idle TTL so abandoned conversations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const redisKeyPrefix = "card-advisor:session:"

// NewRedisStore connects a store to the Redis instance at addr. A zero ttl
// keeps sessions forever.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Get loads and decodes the session's profile.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*types.UserProfile, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var profile types.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &profile, nil
}

// Put encodes and stores the session's profile, refreshing its TTL.
func (s *RedisStore) Put(ctx context.Context, sessionID string, profile *types.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the session's profile.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
