package handler

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Same content was already shown, e.g. a double tap
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the callback's message in place, falling back to a new message
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback handles callbacks that did not match a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	route := callback.Unique
	if route == "" {
		route = data
	}

	switch route {
	case "log_session":
		return h.handleLogSession(c)
	case "stats":
		return h.handleStats(c)
	case "badges":
		return h.handleBadges(c)
	case "notifications":
		return h.handleNotifications(c)
	case "mark_read":
		return h.handleMarkRead(c)
	case "cancel":
		return h.handleCancel(c)
	case "back":
		return h.handleStart(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleStats shows level, streak and the last week
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.statsService.GetSummary(ctx, ledgerUserID(userID))
	if err != nil {
		h.logger.Error("Failed to get summary", zap.Int64("user_id", userID), zap.Error(err))
		return h.failCallback(c, "Failed to load your stats")
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnLogSession),
		markup.Row(btnBadges, btnBack),
	)

	return h.show(c, formatSummary(summary), markup)
}

// handleBadges lists every badge with its unlock state
func (h *Handler) handleBadges(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.statsService.GetSummary(ctx, ledgerUserID(userID))
	if err != nil {
		h.logger.Error("Failed to get badges", zap.Int64("user_id", userID), zap.Error(err))
		return h.failCallback(c, "Failed to load badges")
	}

	return h.show(c, formatBadges(summary.Badges), backMarkup())
}

// handleNotifications shows the newest notifications
func (h *Handler) handleNotifications(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	notifications, err := h.notificationService.ListRecent(ctx, ledgerUserID(userID), 0)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Int64("user_id", userID), zap.Error(err))
		return h.failCallback(c, "Failed to load notifications")
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, n := range notifications {
		if !n.Read {
			rows = append(rows, markup.Row(btnMarkRead))
			break
		}
	}
	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	return h.show(c, formatNotifications(notifications), markup)
}

// handleMarkRead marks every notification as read
func (h *Handler) handleMarkRead(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	marked, err := h.notificationService.MarkAllRead(ctx, ledgerUserID(userID))
	if err != nil {
		h.logger.Error("Failed to mark notifications read", zap.Int64("user_id", userID), zap.Error(err))
		return h.failCallback(c, "Failed to update notifications")
	}

	h.logger.Info("Notifications marked read", zap.Int64("user_id", userID), zap.Int64("count", marked))

	return h.show(c, fmt.Sprintf("✅ Marked %d as read\n\n%s", marked, mainMenuText), mainMenuMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.show(c, mainMenuText, mainMenuMarkup())
}

func (h *Handler) failCallback(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
	return c.Send(text)
}
