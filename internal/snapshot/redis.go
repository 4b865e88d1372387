package snapshot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cmsadmin:"

// RedisStore keeps snapshots in Redis. It serves as the volatile secondary
// tier: the session mirror that guards commands before the durable tier has
// rehydrated, shared across console processes on the same host.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed snapshot store. A zero ttl means
// entries never expire on their own.
func NewRedisStore(addr, password string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
