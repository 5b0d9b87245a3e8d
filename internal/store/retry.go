package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryingStore decorates a Store with bounded exponential backoff plus
// jitter for transient failures. Permission, authentication and
// already-exists outcomes are never retried: the first two will not heal
// on their own and the last is a successful race signal.
type RetryingStore struct {
	inner       Store
	maxAttempts uint64
	initialWait time.Duration
}

// NewRetryingStore wraps inner. maxAttempts counts total tries including
// the first; values below 1 are treated as 1.
func NewRetryingStore(inner Store, maxAttempts uint64) *RetryingStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingStore{inner: inner, maxAttempts: maxAttempts, initialWait: 100 * time.Millisecond}
}

func (s *RetryingStore) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialWait
	b.MaxInterval = 2 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, s.maxAttempts-1), ctx)
}

// Get retries transient read failures, then surfaces the terminal error.
func (s *RetryingStore) Get(ctx context.Context, key string) (*Record, error) {
	var rec *Record
	op := func() error {
		var err error
		rec, err = s.inner.Get(ctx, key)
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, s.policy(ctx)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create retries transient write failures. An already-exists conflict is
// returned immediately so the caller can react to the race.
func (s *RetryingStore) Create(ctx context.Context, key string, rec *Record) error {
	op := func() error {
		err := s.inner.Create(ctx, key, rec)
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, s.policy(ctx))
}
