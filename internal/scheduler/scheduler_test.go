package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *fakeCleaner) CleanupOldNotifications(ctx context.Context) error {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return fmt.Errorf("cleanup called without deadline")
	}
	return c.err
}

func TestScheduler_StartRunsCleanup(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := New(cleaner, time.UTC, zap.NewNop())

	require.NoError(t, s.Start("03:00"))
	defer s.Stop()

	assert.Equal(t, 1, s.JobCount())
	assert.Eventually(t, func() bool { return cleaner.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestScheduler_InvalidTime(t *testing.T) {
	s := New(&fakeCleaner{}, nil, zap.NewNop())

	err := s.Start("25:99")
	assert.Error(t, err)
}

func TestScheduler_CleanupErrorIsLogged(t *testing.T) {
	cleaner := &fakeCleaner{err: fmt.Errorf("db error")}
	s := New(cleaner, time.UTC, zap.NewNop())

	assert.NotPanics(t, s.cleanup)
	assert.Equal(t, int32(1), cleaner.calls.Load())
}
