package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"go.uber.org/zap"
)

// DefaultStoreTimeout bounds lock waiting and store calls of one session
const DefaultStoreTimeout = 5 * time.Second

// maxSessionMinutes keeps xp arithmetic far away from overflow
const maxSessionMinutes = math.MaxInt32

// Notifier receives fire-and-forget notifications. It must not block.
type Notifier interface {
	Notify(userID string, kind domain.NotificationKind, title, body string, metadata map[string]any)
}

// LedgerOptions configures the ledger
type LedgerOptions struct {
	// Location decides which calendar day an instant belongs to. Nil means local time.
	Location *time.Location
	// StoreTimeout bounds how long one session may wait on locks and storage
	StoreTimeout time.Duration
	// Now stamps UpdatedAt; defaults to time.Now
	Now func() time.Time
}

// LedgerService turns study sessions into streak, xp, level and badge updates
type LedgerService struct {
	progressRepo repository.ProgressRepository
	notifier     Notifier
	logger       *zap.Logger

	location     *time.Location
	storeTimeout time.Duration
	now          func() time.Time
	locks        *userLocks
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	progressRepo repository.ProgressRepository,
	notifier Notifier,
	logger *zap.Logger,
	opts LedgerOptions,
) *LedgerService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &LedgerService{
		progressRepo: progressRepo,
		notifier:     notifier,
		logger:       logger,
		location:     opts.Location,
		storeTimeout: opts.StoreTimeout,
		now:          opts.Now,
		locks:        newUserLocks(),
	}
}

// ApplyStudySession records minutesStudied for userID at occurredAt.
//
// The record update is atomic and serialized per user. Notifications for a
// level-up and for newly unlocked badges are sent only after the update is
// stored, and their failures never reach the caller. Errors satisfying
// domain.IsRetryable mean nothing was written.
func (s *LedgerService) ApplyStudySession(ctx context.Context, userID string, minutesStudied float64, occurredAt time.Time) (*domain.SessionResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	minutes, err := normalizeMinutes(minutesStudied)
	if err != nil {
		return nil, err
	}

	eventDay := domain.DayKey(occurredAt, s.location)

	result, err := s.commitSession(ctx, userID, minutes, eventDay)
	if err != nil {
		s.logger.Error("Failed to apply study session",
			zap.String("user_id", userID),
			zap.Int64("minutes", minutes),
			zap.String("day", eventDay),
			zap.Bool("retryable", domain.IsRetryable(err)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Study session applied",
		zap.String("user_id", userID),
		zap.Int64("minutes", result.MinutesApplied),
		zap.String("day", result.EventDay),
		zap.Int("streak", result.Streak),
		zap.Int64("xp", result.XP),
		zap.Int("level", result.Level),
		zap.Strings("badges", result.NewlyUnlockedBadges),
	)

	s.announce(userID, result)

	return result, nil
}

// commitSession is the transactional part: everything in here either lands
// in the store as a whole or not at all
func (s *LedgerService) commitSession(ctx context.Context, userID string, minutes int64, eventDay string) (*domain.SessionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	unlock, err := s.locks.lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wait for progress lock: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	defer unlock()

	if _, err := s.progressRepo.LoadOrCreate(ctx, userID); err != nil {
		return nil, storeError("load progress", err)
	}

	var result *domain.SessionResult
	_, err = s.progressRepo.Commit(ctx, userID, func(record *domain.ProgressRecord) error {
		r, err := applySession(record, minutes, eventDay, s.now())
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, storeError("commit progress", err)
	}

	return result, nil
}

// applySession mutates record for one session and describes what changed
func applySession(record *domain.ProgressRecord, minutes int64, eventDay string, now time.Time) (*domain.SessionResult, error) {
	xpGain := minutes * domain.XPPerMinute
	if record.XP > math.MaxInt64-xpGain || record.TotalMinutes > math.MaxInt64-minutes {
		return nil, fmt.Errorf("%w: counters would overflow", domain.ErrInvalidInput)
	}

	prevLevel := record.Level
	streak := domain.NextStreak(record.Streak, record.LastStudiedDay, eventDay)
	xp := record.XP + xpGain
	level := domain.LevelFromXP(xp)

	record.AddMinutes(eventDay, minutes)
	record.Streak = streak
	record.LastStudiedDay = domain.LatestDay(record.LastStudiedDay, eventDay)
	record.XP = xp
	record.Level = level
	record.UpdatedAt = now

	unlocked := domain.NewlyUnlocked(record)
	record.AddBadges(unlocked...)

	return &domain.SessionResult{
		MinutesApplied:      minutes,
		EventDay:            eventDay,
		Streak:              streak,
		XPGain:              xpGain,
		XP:                  xp,
		Level:               level,
		LeveledUp:           level != prevLevel,
		NewlyUnlockedBadges: unlocked,
	}, nil
}

// announce sends the level-up and badge notifications. Nothing here may fail
// the already committed session.
func (s *LedgerService) announce(userID string, result *domain.SessionResult) {
	if s.notifier == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Notifier panicked",
				zap.String("user_id", userID),
				zap.Any("panic", r),
			)
		}
	}()

	if result.LeveledUp {
		s.notifier.Notify(userID, domain.NotificationLevel,
			"Level Up! ⚡",
			fmt.Sprintf("You reached level %d. Keep cooking.", result.Level),
			map[string]any{"level": result.Level},
		)
	}

	for _, id := range result.NewlyUnlockedBadges {
		title := id
		if badge, ok := domain.LookupBadge(id); ok {
			title = badge.Title
		}
		s.notifier.Notify(userID, domain.NotificationBadge,
			"Badge Unlocked 🏅",
			"Unlocked: "+title,
			map[string]any{"badge": id},
		)
	}
}

// normalizeMinutes rounds to whole minutes with a floor of one
func normalizeMinutes(minutes float64) (int64, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("%w: minutes must be finite, got %v", domain.ErrInvalidInput, minutes)
	}

	rounded := math.Max(1, math.Round(minutes))
	if rounded > maxSessionMinutes {
		return 0, fmt.Errorf("%w: %v minutes is not a plausible session", domain.ErrInvalidInput, minutes)
	}
	return int64(rounded), nil
}

// storeError keeps classified errors as they are and marks anything else as
// a store outage
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) || domain.IsRetryable(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceUnavailable, err)
}
