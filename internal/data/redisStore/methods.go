package redisStore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// SetJSON stores v as JSON under key for ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to encode value", goerr.V("key", key))
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return goerr.Wrap(err, "redis SET failed", goerr.V("key", key))
	}
	return nil
}

// GetJSON decodes the value under key into dst. A missing key reports
// found=false with a nil error.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (found bool, err error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "redis GET failed", goerr.V("key", key))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, goerr.Wrap(err, "stored value is not valid JSON", goerr.V("key", key))
	}
	return true, nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}
