package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mintle:word:"

// RedisStore implements Store on a shared Redis instance. Create-if-absent
// maps onto SETNX, which is atomic per key, so concurrent first writers
// for a bucket resolve to exactly one winner server-side.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a store for the given connection options.
func NewRedisStore(opts *redis.Options) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(opts)}
}

// Close closes the underlying Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies connectivity. Useful for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Get retrieves the record for a key, or (nil, nil) if none exists.
func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyRedisError(key, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, &Error{Kind: KindInternal, Key: key, Err: fmt.Errorf("unmarshaling record: %w", err)}
	}
	return &rec, nil
}

// Create writes the record only if the key is vacant. A losing racer gets
// an *Error with KindAlreadyExists.
func (s *RedisStore) Create(ctx context.Context, key string, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return &Error{Kind: KindInternal, Key: key, Err: fmt.Errorf("marshaling record: %w", err)}
	}

	created, err := s.rdb.SetNX(ctx, redisKeyPrefix+key, payload, 0).Result()
	if err != nil {
		return classifyRedisError(key, err)
	}
	if !created {
		return &Error{Kind: KindAlreadyExists, Key: key}
	}
	return nil
}

func classifyRedisError(key string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindDeadlineExceeded, Key: key, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindAborted, Key: key, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Key: key, Err: err}
	}
}
