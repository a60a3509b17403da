package handler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"studyledger/internal/domain"
	"studyledger/internal/middleware"
	"studyledger/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the storage work behind a single update
const requestTimeout = 10 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot                 *tele.Bot
	authService         *service.AuthService
	ledgerService       *service.LedgerService
	statsService        *service.StatsService
	notificationService *service.NotificationService
	logger              *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	ledgerService *service.LedgerService,
	statsService *service.StatsService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:                 bot,
		authService:         authService,
		ledgerService:       ledgerService,
		statsService:        statsService,
		notificationService: notificationService,
		logger:              logger,
		states:              make(map[int64]*domain.StateData),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: greeting and the password prompt
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else requires an authorized user
	private := h.bot.Group()
	private.Use(middleware.AuthMiddleware(h.authService, h.logger))

	private.Handle("/study", h.handleStudy)
	private.Handle("/stats", h.handleStats)

	// Callback queries (inline buttons)
	private.Handle(&btnLogSession, h.handleLogSession)
	private.Handle(&btnStats, h.handleStats)
	private.Handle(&btnBadges, h.handleBadges)
	private.Handle(&btnNotifications, h.handleNotifications)
	private.Handle(&btnMarkRead, h.handleMarkRead)
	private.Handle(&btnCancel, h.handleCancel)
	private.Handle(&btnBack, h.handleStart)

	// Generic callback handler for dynamic data
	private.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// ledgerUserID maps a Telegram user to the ledger's user key
func ledgerUserID(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

// Inline keyboard buttons
var (
	btnLogSession = tele.Btn{
		Unique: "log_session",
		Text:   "⏱ Log session",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 My stats",
	}
	btnBadges = tele.Btn{
		Unique: "badges",
		Text:   "🏅 Badges",
	}
	btnNotifications = tele.Btn{
		Unique: "notifications",
		Text:   "🔔 Notifications",
	}
	btnMarkRead = tele.Btn{
		Unique: "mark_read",
		Text:   "✅ Mark all read",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 Back",
	}
)

const mainMenuText = "🏠 Main menu\n\nWhat would you like to do?"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnLogSession),
		menu.Row(btnStats, btnBadges),
		menu.Row(btnNotifications),
	)
	return menu
}

func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnBack))
	return markup
}
