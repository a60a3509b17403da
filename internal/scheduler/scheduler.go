package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a single cleanup run
const DefaultJobTimeout = 5 * time.Minute

// Cleaner removes stale data
type Cleaner interface {
	CleanupOldNotifications(ctx context.Context) error
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	scheduler  *gocron.Scheduler
	cleaner    Cleaner
	logger     *zap.Logger
	jobTimeout time.Duration
}

// New creates a scheduler whose jobs fire in loc
func New(cleaner Cleaner, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(loc),
		cleaner:    cleaner,
		logger:     logger,
		jobTimeout: DefaultJobTimeout,
	}
}

// Start schedules the daily notification cleanup at cleanupAt ("HH:MM") and
// starts the scheduler without blocking. The job also runs once right away.
func (s *Scheduler) Start(cleanupAt string) error {
	if _, err := s.scheduler.Every(1).Day().At(cleanupAt).StartImmediately().Do(s.cleanup); err != nil {
		return fmt.Errorf("schedule notification cleanup: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", zap.String("cleanup_at", cleanupAt))
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Scheduler stopped")
}

// JobCount reports how many jobs are registered
func (s *Scheduler) JobCount() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.logger.Info("Running scheduled cleanup")
	if err := s.cleaner.CleanupOldNotifications(ctx); err != nil {
		s.logger.Error("Failed to run scheduled cleanup", zap.Error(err))
	}
}
