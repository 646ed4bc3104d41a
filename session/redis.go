package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session token in Redis, surviving process restarts.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration // 0 means no expiry
}

// NewRedisStore returns a RedisStore keyed under prefix. A ttl of zero stores
// the token without expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "afs"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}

// Save implements TokenStore.
func (s *RedisStore) Save(ctx context.Context, key, token string) error {
	if err := s.redis.Set(ctx, s.key(key), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Load implements TokenStore.
func (s *RedisStore) Load(ctx context.Context, key string) (string, error) {
	token, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return token, nil
}

// Clear implements TokenStore.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
