package repository

import (
	"context"

	"studyledger/internal/domain"
)

// UserRepository defines bot user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
}

// MutateFunc changes a progress record in place. Returning an error aborts
// the commit without writing anything.
type MutateFunc func(record *domain.ProgressRecord) error

// ProgressRepository defines progress record operations
type ProgressRepository interface {
	// LoadOrCreate returns the user's record, creating a zeroed one if absent
	LoadOrCreate(ctx context.Context, userID string) (*domain.ProgressRecord, error)
	// Commit applies mutate to the current record and writes it atomically
	Commit(ctx context.Context, userID string, mutate MutateFunc) (*domain.ProgressRecord, error)
	// Find returns the user's record, or nil if there is none
	Find(ctx context.Context, userID string) (*domain.ProgressRecord, error)
}

// NotificationRepository defines notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteReadOlderThan(ctx context.Context, days int) (int64, error)
}
