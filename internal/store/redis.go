package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the key-value store in a Redis instance, for headless clients
// that share identity across processes. Same silent-degradation contract as
// the other backends.
type Redis struct {
	rdb     *redis.Client
	timeout time.Duration

	probeOnce sync.Once
	available bool
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, timeout: 2 * time.Second}
}

func (s *Redis) ok() bool {
	s.probeOnce.Do(func() {
		if s.rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.available = s.rdb.Ping(ctx).Err() == nil
	})
	return s.available
}

func (s *Redis) Get(key string) (string, bool) {
	if !s.ok() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	v, err := s.rdb.Get(ctx, "doremi:"+key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *Redis) Set(key, value string) bool {
	if !s.ok() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.rdb.Set(ctx, "doremi:"+key, value, 0).Err() == nil
}

func (s *Redis) Remove(key string) bool {
	if !s.ok() {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.rdb.Del(ctx, "doremi:"+key).Err() == nil
}
