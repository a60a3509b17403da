package handler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"studyledger/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const minutesPrompt = "How many minutes did you study? Send a number, e.g. 25"

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	// Ensure user exists
	if err := h.authService.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(genericError)
	}

	// If not authorized, check password
	if !authorized {
		if !h.authService.CheckPassword(text) {
			return c.Send("Wrong password.")
		}

		if err := h.authService.AuthorizeUser(ctx, userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(genericError)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.ResetState(userID)
		return c.Send("✅ Access granted!\n\n"+mainMenuText, mainMenuMarkup())
	}

	// Outside the minutes prompt a bare number still counts as a session
	if h.GetState(userID).State != domain.StateWaitingMinutes {
		if _, err := parseMinutes(text); err != nil {
			return c.Send(mainMenuText, mainMenuMarkup())
		}
	}

	return h.recordSession(c, userID, text)
}

// handleStudy handles /study <minutes>
func (h *Handler) handleStudy(c tele.Context) error {
	userID := c.Sender().ID

	args := c.Args()
	if len(args) == 0 {
		return h.promptMinutes(c, userID)
	}

	return h.recordSession(c, userID, strings.Join(args, " "))
}

// handleLogSession starts the minutes prompt from the menu
func (h *Handler) handleLogSession(c tele.Context) error {
	return h.promptMinutes(c, c.Sender().ID)
}

func (h *Handler) promptMinutes(c tele.Context, userID int64) error {
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingMinutes})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))

	if c.Callback() != nil {
		return h.show(c, minutesPrompt, markup)
	}
	return c.Send(minutesPrompt, markup)
}

// recordSession parses text as minutes and applies it to the ledger
func (h *Handler) recordSession(c tele.Context, userID int64, text string) error {
	minutes, err := parseMinutes(text)
	if err != nil {
		return c.Send("That doesn't look like a number of minutes. Try again, e.g. 25")
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := h.ledgerService.ApplyStudySession(ctx, ledgerUserID(userID), minutes, time.Now())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Send("That session can't be recorded. Send a realistic number of minutes.")
	case domain.IsRetryable(err):
		// Keep the prompt open so the user can simply resend
		return c.Send("⚠️ Couldn't save your session right now. Please send it again in a moment.")
	default:
		h.logger.Error("Unexpected ledger error", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(genericError)
	}

	h.ResetState(userID)
	return c.Send(formatSessionResult(result), mainMenuMarkup())
}

// parseMinutes accepts "25", "25.5", "25,5", "25m" or "25 min"
func parseMinutes(text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, suffix := range []string{"minutes", "minute", "mins", "min", "m"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	s = strings.Replace(s, ",", ".", 1)

	minutes, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", text, err)
	}
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("parse minutes %q: not a finite number", text)
	}
	return minutes, nil
}
