package service

import (
	"context"
	"fmt"
	"testing"

	"studyledger/internal/domain"
	"studyledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListRecent(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "explicit limit", limit: 3, expectedLimit: 3},
		{name: "default limit", limit: 0, expectedLimit: DefaultNotificationLimit},
		{name: "negative limit", limit: -1, expectedLimit: DefaultNotificationLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifications := []domain.Notification{
				testutil.NewTestNotification("n2", "u1", domain.NotificationLevel, "Level Up! ⚡"),
				testutil.NewTestNotification("n1", "u1", domain.NotificationBadge, "Badge Unlocked 🏅"),
			}

			mockRepo := new(testutil.MockNotificationRepository)
			mockRepo.On("ListRecent", mock.Anything, "u1", tt.expectedLimit).Return(notifications, nil)

			service := NewNotificationService(mockRepo)

			result, err := service.ListRecent(context.Background(), "u1", tt.limit)

			require.NoError(t, err)
			assert.Equal(t, notifications, result)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	mockRepo := new(testutil.MockNotificationRepository)
	mockRepo.On("MarkAllRead", mock.Anything, "u1").Return(int64(4), nil)
	mockRepo.On("MarkAllRead", mock.Anything, "u2").Return(int64(0), fmt.Errorf("db error"))

	service := NewNotificationService(mockRepo)

	marked, err := service.MarkAllRead(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), marked)

	_, err = service.MarkAllRead(context.Background(), "u2")
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}
