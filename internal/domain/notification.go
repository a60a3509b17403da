package domain

import "time"

// NotificationKind classifies user-visible notifications
type NotificationKind string

const (
	NotificationBadge  NotificationKind = "badge"
	NotificationLevel  NotificationKind = "level"
	NotificationFriend NotificationKind = "friend"
	NotificationSystem NotificationKind = "system"
)

// Valid reports whether k is a known kind
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationBadge, NotificationLevel, NotificationFriend, NotificationSystem:
		return true
	}
	return false
}

// Notification is a persisted user-visible message
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Body      string
	Metadata  map[string]any
	Read      bool
	CreatedAt time.Time
}
