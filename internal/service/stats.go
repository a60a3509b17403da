package service

import (
	"context"
	"time"

	"studyledger/internal/domain"
	"studyledger/internal/repository"

	"go.uber.org/zap"
)

// DefaultRetentionDays is how long read notifications are kept
const DefaultRetentionDays = 30

const weekDays = 7

// StatsService builds progress summaries and cleans up old data
type StatsService struct {
	progressRepo     repository.ProgressRepository
	notificationRepo repository.NotificationRepository
	logger           *zap.Logger
	location         *time.Location
	retentionDays    int
	now              func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(
	progressRepo repository.ProgressRepository,
	notificationRepo repository.NotificationRepository,
	logger *zap.Logger,
	location *time.Location,
	retentionDays int,
) *StatsService {
	if location == nil {
		location = time.Local
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &StatsService{
		progressRepo:     progressRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		location:         location,
		retentionDays:    retentionDays,
		now:              time.Now,
	}
}

// GetSummary returns the user's progress as of now. Users who never studied
// get an empty summary; no record is created for them.
func (s *StatsService) GetSummary(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	record, err := s.progressRepo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = domain.NewProgressRecord(userID, s.now())
	}

	now := s.now().In(s.location)
	today := domain.DayKey(now, s.location)

	summary := &domain.ProgressSummary{
		UserID:         userID,
		Level:          domain.LevelProgressFor(record.XP),
		XP:             record.XP,
		TotalMinutes:   record.TotalMinutes,
		TodayMinutes:   record.MinutesByDay[today],
		Streak:         domain.ActiveStreak(record.Streak, record.LastStudiedDay, today),
		LastStudiedDay: record.LastStudiedDay,
		Week:           lastDays(record, now, weekDays),
	}

	for _, rule := range domain.BadgeRules {
		summary.Badges = append(summary.Badges, domain.BadgeStatus{
			Badge:    rule.Badge,
			Unlocked: record.HasBadge(rule.Badge.ID),
		})
	}

	return summary, nil
}

// CleanupOldNotifications removes read notifications past the retention window
func (s *StatsService) CleanupOldNotifications(ctx context.Context) error {
	s.logger.Info("Starting cleanup of old notifications", zap.Int("retention_days", s.retentionDays))

	deleted, err := s.notificationRepo.DeleteReadOlderThan(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old notifications", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("deleted", deleted))
	return nil
}

// lastDays returns n days ending today, oldest first, with zero-minute gaps filled
func lastDays(record *domain.ProgressRecord, now time.Time, n int) []domain.Day {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := make([]domain.Day, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := midnight.AddDate(0, 0, -i)
		days = append(days, domain.Day{
			Date:    date,
			Minutes: record.MinutesByDay[date.Format(domain.DayKeyLayout)],
		})
	}
	return days
}
