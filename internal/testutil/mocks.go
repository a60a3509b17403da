package testutil

import (
	"context"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProgressRepository is a mock for ProgressRepository.
// Commit runs the mutation against the record given to Return.
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) LoadOrCreate(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Commit(ctx context.Context, userID string, mutate repository.MutateFunc) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	next := args.Get(0).(*domain.ProgressRecord).Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *MockProgressRepository) Find(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressRecord), args.Error(1)
}

// MockNotificationRepository is a mock for NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteReadOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock for the ledger's Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(userID string, kind domain.NotificationKind, title, body string, metadata map[string]any) {
	m.Called(userID, kind, title, body, metadata)
}
