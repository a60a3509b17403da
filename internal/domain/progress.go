package domain

import "time"

// ProgressRecord is the per-user document holding cumulative study and
// gamification state. It is only mutated by the ledger.
type ProgressRecord struct {
	UserID         string
	MinutesByDay   map[string]int64
	TotalMinutes   int64
	Streak         int
	LastStudiedDay string
	XP             int64
	Level          int
	Badges         []string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProgressRecord returns a zeroed record for userID
func NewProgressRecord(userID string, now time.Time) *ProgressRecord {
	return &ProgressRecord{
		UserID:       userID,
		MinutesByDay: make(map[string]int64),
		Level:        1,
		Badges:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy of the record
func (r *ProgressRecord) Clone() *ProgressRecord {
	c := *r
	c.MinutesByDay = make(map[string]int64, len(r.MinutesByDay))
	for day, minutes := range r.MinutesByDay {
		c.MinutesByDay[day] = minutes
	}
	c.Badges = append([]string{}, r.Badges...)
	return &c
}

// HasBadge reports whether id is already unlocked
func (r *ProgressRecord) HasBadge(id string) bool {
	for _, b := range r.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// AddBadges unlocks ids that are not already present
func (r *ProgressRecord) AddBadges(ids ...string) {
	for _, id := range ids {
		if !r.HasBadge(id) {
			r.Badges = append(r.Badges, id)
		}
	}
}

// AddMinutes adds minutes to day and to the running total in one step
func (r *ProgressRecord) AddMinutes(day string, minutes int64) {
	if r.MinutesByDay == nil {
		r.MinutesByDay = make(map[string]int64)
	}
	r.MinutesByDay[day] += minutes
	r.TotalMinutes += minutes
}

// ChangedDays lists the day keys whose minutes differ from before
func (r *ProgressRecord) ChangedDays(before *ProgressRecord) []string {
	var days []string
	for day, minutes := range r.MinutesByDay {
		if before == nil || before.MinutesByDay[day] != minutes {
			days = append(days, day)
		}
	}
	return days
}

// SessionResult describes the outcome of one applied study session
type SessionResult struct {
	MinutesApplied      int64
	EventDay            string
	Streak              int
	XPGain              int64
	XP                  int64
	Level               int
	LeveledUp           bool
	NewlyUnlockedBadges []string
}
