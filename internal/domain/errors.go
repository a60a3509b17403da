package domain

import "errors"

var (
	// ErrPersistenceUnavailable means the store could not be reached in time.
	// Nothing was written; the call can be retried.
	ErrPersistenceUnavailable = errors.New("progress store unavailable")

	// ErrConcurrentConflict means the optimistic retry budget ran out
	ErrConcurrentConflict = errors.New("concurrent update conflict: retry budget exhausted")

	// ErrInvalidInput rejects input that would corrupt counters
	ErrInvalidInput = errors.New("invalid input")
)

// IsRetryable reports whether the failed operation is safe to re-attempt
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable) || errors.Is(err, ErrConcurrentConflict)
}
