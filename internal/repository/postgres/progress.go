package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"github.com/lib/pq"
)

// DefaultCommitAttempts is the optimistic retry budget used when none is set
const DefaultCommitAttempts = 5

const (
	selectProgressQuery = `
		SELECT user_id, total_minutes, streak, last_studied_day, xp, level, badges, version, created_at, updated_at
		FROM progress_records
		WHERE user_id = $1
	`
	selectMinutesQuery = `
		SELECT day, minutes
		FROM progress_minutes
		WHERE user_id = $1
	`
	insertProgressQuery = `
		INSERT INTO progress_records (user_id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	updateProgressQuery = `
		UPDATE progress_records
		SET total_minutes = $2, streak = $3, last_studied_day = $4, xp = $5, level = $6,
			badges = $7, updated_at = $8, version = version + 1
		WHERE user_id = $1 AND version = $9
	`
	upsertMinutesQuery = `
		INSERT INTO progress_minutes (user_id, day, minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, day)
		DO UPDATE SET minutes = EXCLUDED.minutes
	`
)

// ProgressRepo implements repository.ProgressRepository with optimistic
// concurrency on a version column
type ProgressRepo struct {
	db          *sql.DB
	maxAttempts int
	now         func() time.Time
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sql.DB, maxAttempts int) *ProgressRepo {
	if maxAttempts <= 0 {
		maxAttempts = DefaultCommitAttempts
	}
	return &ProgressRepo{db: db, maxAttempts: maxAttempts, now: time.Now}
}

// Find returns the user's record or nil if it does not exist
func (r *ProgressRepo) Find(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	record, err := r.load(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("load progress", err)
	}
	return record, nil
}

// LoadOrCreate returns the user's record, inserting a zeroed one first if needed
func (r *ProgressRepo) LoadOrCreate(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	if err := r.create(ctx, userID); err != nil {
		return nil, err
	}

	record, err := r.load(ctx, userID)
	if err != nil {
		return nil, unavailable("load progress", err)
	}
	return record, nil
}

// Commit reads the current record, applies mutate to a copy and writes it
// back only if nobody else wrote in between. Lost races are retried from a
// fresh read until the attempt budget is spent.
func (r *ProgressRepo) Commit(ctx context.Context, userID string, mutate repository.MutateFunc) (*domain.ProgressRecord, error) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		current, err := r.load(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			if err := r.create(ctx, userID); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, unavailable("load progress", err)
		}

		next := current.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}

		written, err := r.write(ctx, current, next)
		if err != nil {
			return nil, unavailable("write progress", err)
		}
		if written {
			next.Version = current.Version + 1
			return next, nil
		}
	}

	return nil, fmt.Errorf("commit progress for %s after %d attempts: %w", userID, r.maxAttempts, domain.ErrConcurrentConflict)
}

func (r *ProgressRepo) create(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, insertProgressQuery, userID, r.now()); err != nil {
		return unavailable("create progress", err)
	}
	return nil
}

func (r *ProgressRepo) load(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	record := &domain.ProgressRecord{MinutesByDay: make(map[string]int64)}

	err := r.db.QueryRowContext(ctx, selectProgressQuery, userID).Scan(
		&record.UserID,
		&record.TotalMinutes,
		&record.Streak,
		&record.LastStudiedDay,
		&record.XP,
		&record.Level,
		pq.Array(&record.Badges),
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if record.Badges == nil {
		record.Badges = []string{}
	}

	rows, err := r.db.QueryContext(ctx, selectMinutesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var minutes int64
		if err := rows.Scan(&day, &minutes); err != nil {
			return nil, err
		}
		record.MinutesByDay[day] = minutes
	}

	return record, rows.Err()
}

// write stores next if the row still carries current's version. It reports
// false, with nothing written, when the version moved.
func (r *ProgressRepo) write(ctx context.Context, current, next *domain.ProgressRecord) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, updateProgressQuery,
		next.UserID,
		next.TotalMinutes,
		next.Streak,
		next.LastStudiedDay,
		next.XP,
		next.Level,
		pq.Array(next.Badges),
		next.UpdatedAt,
		current.Version,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	days := next.ChangedDays(current)
	sort.Strings(days)
	for _, day := range days {
		if _, err := tx.ExecContext(ctx, upsertMinutesQuery, next.UserID, day, next.MinutesByDay[day]); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
