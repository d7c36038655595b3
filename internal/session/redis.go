package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pending2fa:"

// RedisStore keeps pending bindings in Redis with a sliding idle TTL:
// resolving a binding renews its lifetime the way a session cookie
// renews on activity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: idleTTL}
}

func (s *RedisStore) key(token string) string {
	return keyPrefix + token
}

func (s *RedisStore) Bind(ctx context.Context, token string, userID int64) error {
	return s.client.Set(ctx, s.key(token), userID, s.ttl).Err()
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetEx(ctx, s.key(token), s.ttl).Result()
	if err == redis.Nil {
		return 0, ErrNoBinding
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNoBinding
	}
	return userID, nil
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
