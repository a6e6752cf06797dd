package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session state in a Redis hash. Used on shared lab machines
// where the dashboard runs under a common OS account and the session must
// follow the student, not the box.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to redis with short timeouts.
func NewRedisStore(addr, key string) *RedisStore {
	if key == "" {
		key = "evalportal:session"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisStore{client: client, key: key}
}

// Healthy verifies redis connectivity.
func (s *RedisStore) Healthy(ctx context.Context) bool {
	if s == nil || s.client == nil {
		return false
	}
	return s.client.Ping(ctx).Err() == nil
}

// Get returns the value for key if present.
func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := s.opCtx()
	defer cancel()
	v, err := s.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

// Set stores key=value.
func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.client.HSet(ctx, s.key, key, value).Err()
}

// Clear deletes the whole session hash in one command.
func (s *RedisStore) Clear() error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.client.Del(ctx, s.key).Err()
}

func (s *RedisStore) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}
