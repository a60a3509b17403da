package postgres

import (
	"fmt"

	"studyledger/internal/domain"
)

// unavailable marks a driver failure as a retryable store outage
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceUnavailable, err)
}
