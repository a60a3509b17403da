package notify

import (
	"context"
	"errors"
	"testing"

	"studyledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type fakeSender struct {
	to   tele.Recipient
	what interface{}
	err  error
}

func (s *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.to = to
	s.what = what
	return &tele.Message{}, s.err
}

func TestTelegramSink_Deliver(t *testing.T) {
	sender := &fakeSender{}
	sink := NewTelegramSink(sender)

	err := sink.Deliver(context.Background(), domain.Notification{
		UserID: "4242",
		Kind:   domain.NotificationLevel,
		Title:  "Level Up! ⚡",
		Body:   "You reached level 3. Keep cooking.",
	})

	require.NoError(t, err)
	assert.Equal(t, "4242", sender.to.Recipient())
	assert.Equal(t, "Level Up! ⚡\nYou reached level 3. Keep cooking.", sender.what)
	assert.Equal(t, "telegram", sink.Name())
}

func TestTelegramSink_DeliverErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		sendErr error
	}{
		{name: "non numeric user", userID: "alice"},
		{name: "send failure", userID: "7", sendErr: errors.New("telegram: bot was blocked by the user (403)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.sendErr}
			sink := NewTelegramSink(sender)

			err := sink.Deliver(context.Background(), domain.Notification{UserID: tt.userID, Title: "x"})

			assert.Error(t, err)
			if tt.sendErr != nil {
				assert.ErrorIs(t, err, tt.sendErr)
			}
		})
	}
}
