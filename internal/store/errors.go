package store

import (
	"errors"
	"fmt"
)

// Kind classifies store failures. The split matters for retry policy:
// transient kinds may be retried, the rest never are, and AlreadyExists is
// the create-race signal the lifecycle treats as success-with-redirect.
type Kind int

const (
	KindAlreadyExists Kind = iota
	KindPermissionDenied
	KindUnauthenticated
	KindUnavailable
	KindDeadlineExceeded
	KindResourceExhausted
	KindInternal
	KindAborted
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already-exists"
	case KindPermissionDenied:
		return "permission-denied"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnavailable:
		return "unavailable"
	case KindDeadlineExceeded:
		return "deadline-exceeded"
	case KindResourceExhausted:
		return "resource-exhausted"
	case KindInternal:
		return "internal"
	case KindAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Transient reports whether failures of this kind are worth retrying.
func (k Kind) Transient() bool {
	switch k {
	case KindUnavailable, KindDeadlineExceeded, KindResourceExhausted, KindInternal, KindAborted:
		return true
	default:
		return false
	}
}

// Error is a classified store failure for a specific key.
type Error struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s for key %s: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s for key %s", e.Kind, e.Key)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAlreadyExists reports whether err is a create conflict.
func IsAlreadyExists(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindAlreadyExists
}

// IsTransient reports whether err is a retryable store failure.
func IsTransient(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind.Transient()
}
