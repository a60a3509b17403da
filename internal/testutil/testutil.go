package testutil

import (
	"context"
	"sync"
	"time"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestRecord creates a progress record with the given counters
func NewTestRecord(userID string, totalMinutes int64, streak int, lastDay string, xp int64) *domain.ProgressRecord {
	r := domain.NewProgressRecord(userID, time.Now())
	if lastDay != "" && totalMinutes > 0 {
		r.MinutesByDay[lastDay] = totalMinutes
	}
	r.TotalMinutes = totalMinutes
	r.Streak = streak
	r.LastStudiedDay = lastDay
	r.XP = xp
	r.Level = domain.LevelFromXP(xp)
	return r
}

// NewTestNotification creates a test notification
func NewTestNotification(id, userID string, kind domain.NotificationKind, title string) domain.Notification {
	return domain.Notification{
		ID:        id,
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// MemoryProgressRepository is an in-memory ProgressRepository with the same
// versioned read-modify-write semantics as the Postgres one
type MemoryProgressRepository struct {
	mu      sync.Mutex
	records map[string]*domain.ProgressRecord

	// Err, when set, fails every call without touching state
	Err error
	// Delay is slept between read and conditional write, widening race windows
	Delay time.Duration
	// MaxAttempts is the optimistic retry budget
	MaxAttempts int
}

// NewMemoryProgressRepository creates an empty repository
func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{
		records:     make(map[string]*domain.ProgressRecord),
		MaxAttempts: 5,
	}
}

func (r *MemoryProgressRepository) LoadOrCreate(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[userID]
	if !ok {
		record = domain.NewProgressRecord(userID, time.Now())
		r.records[userID] = record
	}
	return record.Clone(), nil
}

func (r *MemoryProgressRepository) Find(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

func (r *MemoryProgressRepository) Commit(ctx context.Context, userID string, mutate repository.MutateFunc) (*domain.ProgressRecord, error) {
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		current, err := r.LoadOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}

		if r.Delay > 0 {
			time.Sleep(r.Delay)
		}
		if err := r.check(ctx); err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.records[userID].Version == current.Version {
			next.Version = current.Version + 1
			r.records[userID] = next.Clone()
			r.mu.Unlock()
			return next, nil
		}
		r.mu.Unlock()
	}
	return nil, domain.ErrConcurrentConflict
}

// Snapshot returns a copy of the stored record
func (r *MemoryProgressRepository) Snapshot(userID string) *domain.ProgressRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[userID]
	if !ok {
		return nil
	}
	return record.Clone()
}

func (r *MemoryProgressRepository) check(ctx context.Context) error {
	if r.Err != nil {
		return r.Err
	}
	return ctx.Err()
}
