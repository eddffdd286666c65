package preferences

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// hashClient is the subset of *redis.Client used by RedisStore.
type hashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisStore keeps one hash per profile.
type RedisStore struct {
	client hashClient
	key    string
}

// NewRedisStore returns a store writing to the hash "ticket-board:preferences:<profile>".
func NewRedisStore(client hashClient, profile string) *RedisStore {
	return &RedisStore{client: client, key: "ticket-board:preferences:" + profile}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.HSet(ctx, s.key, key, value).Err()
}
