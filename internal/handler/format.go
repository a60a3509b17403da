package handler

import (
	"fmt"
	"strings"

	"studyledger/internal/domain"
)

const progressBarWidth = 10

func formatSessionResult(r *domain.SessionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ Logged %d min (+%d XP)\n\n", r.MinutesApplied, r.XPGain)
	fmt.Fprintf(&b, "🔥 Streak: %s\n", pluralDays(r.Streak))
	fmt.Fprintf(&b, "⚡ Level %d · %d XP\n", r.Level, r.XP)

	if r.LeveledUp {
		fmt.Fprintf(&b, "\n🎉 Level up! You reached level %d.\n", r.Level)
	}
	for _, id := range r.NewlyUnlockedBadges {
		if badge, ok := domain.LookupBadge(id); ok {
			fmt.Fprintf(&b, "%s New badge: %s\n", badge.Icon, badge.Title)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatSummary(s *domain.ProgressSummary) string {
	var b strings.Builder

	b.WriteString("📊 Your progress\n\n")
	fmt.Fprintf(&b, "⚡ Level %d\n", s.Level.Level)
	if s.Level.XPForNext > 0 {
		fmt.Fprintf(&b, "%s %d/%d XP\n",
			progressBar(s.Level.XPIntoLevel, s.Level.XPForNext, progressBarWidth),
			s.Level.XPIntoLevel, s.Level.XPForNext)
	} else {
		b.WriteString("Max level reached 👑\n")
	}
	fmt.Fprintf(&b, "\n🔥 Streak: %s\n", pluralDays(s.Streak))
	fmt.Fprintf(&b, "📅 Today: %d min\n", s.TodayMinutes)
	fmt.Fprintf(&b, "⏱ Total: %s\n", formatDuration(s.TotalMinutes))

	b.WriteString("\nLast 7 days:\n")
	for _, day := range s.Week {
		fmt.Fprintf(&b, "%s: %d min\n", day.DisplayString(), day.Minutes)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatBadges(statuses []domain.BadgeStatus) string {
	var b strings.Builder

	unlocked := 0
	for _, status := range statuses {
		if status.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(&b, "🏅 Badges (%d/%d)\n\n", unlocked, len(statuses))

	for _, status := range statuses {
		mark := "🔒"
		if status.Unlocked {
			mark = status.Badge.Icon
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, status.Badge.Title, status.Badge.Description)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatNotifications(notifications []domain.Notification) string {
	if len(notifications) == 0 {
		return "🔔 No notifications yet"
	}

	var b strings.Builder
	b.WriteString("🔔 Notifications\n\n")
	for _, n := range notifications {
		dot := "  "
		if !n.Read {
			dot = "• "
		}
		fmt.Fprintf(&b, "%s%s\n   %s\n", dot, n.Title, n.Body)
	}

	return strings.TrimRight(b.String(), "\n")
}

// progressBar renders done/total as a fixed-width bar
func progressBar(done, total int64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(done * int64(width) / total)
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func formatDuration(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
