package notify

import (
	"context"
	"fmt"
	"strconv"

	"studyledger/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Sender is the part of *tele.Bot the Telegram sink needs
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramSink pushes notifications into the user's chat
type TelegramSink struct {
	sender Sender
}

// NewTelegramSink creates a sink sending through sender
func NewTelegramSink(sender Sender) *TelegramSink {
	return &TelegramSink{sender: sender}
}

func (s *TelegramSink) Name() string { return "telegram" }

// Deliver sends title and body as one message. User IDs are Telegram chat IDs.
func (s *TelegramSink) Deliver(ctx context.Context, n domain.Notification) error {
	chatID, err := strconv.ParseInt(n.UserID, 10, 64)
	if err != nil {
		return fmt.Errorf("user %q is not a telegram chat: %w", n.UserID, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := n.Title
	if n.Body != "" {
		text += "\n" + n.Body
	}

	if _, err := s.sender.Send(&tele.User{ID: chatID}, text); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
