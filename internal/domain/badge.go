package domain

// Badge identifiers
const (
	BadgeFirstSession = "first_session"
	BadgeHourClub     = "hour_club"
	BadgeTenHours     = "ten_hours"
	BadgeStreak3      = "streak_3"
	BadgeStreak7      = "streak_7"
	BadgeLevel5       = "level_5"
	BadgeLevel10      = "level_10"
)

// Badge is catalog metadata for an achievement
type Badge struct {
	ID          string
	Title       string
	Description string
	Icon        string
}

// BadgeRule unlocks a badge once its predicate holds.
// Predicates must be monotone in the record's counters.
type BadgeRule struct {
	Badge    Badge
	Unlocked func(r *ProgressRecord) bool
}

// BadgeRules is the fixed rule table; its order is the unlock order
var BadgeRules = []BadgeRule{
	{
		Badge:    Badge{ID: BadgeFirstSession, Title: "First Session", Description: "Tracked your first study minutes.", Icon: "✨"},
		Unlocked: func(r *ProgressRecord) bool { return r.TotalMinutes >= 1 },
	},
	{
		Badge:    Badge{ID: BadgeHourClub, Title: "Hour Club", Description: "Studied 60+ total minutes.", Icon: "⏱️"},
		Unlocked: func(r *ProgressRecord) bool { return r.TotalMinutes >= 60 },
	},
	{
		Badge:    Badge{ID: BadgeTenHours, Title: "10 Hours", Description: "Studied 600+ total minutes.", Icon: "🏅"},
		Unlocked: func(r *ProgressRecord) bool { return r.TotalMinutes >= 600 },
	},
	{
		Badge:    Badge{ID: BadgeStreak3, Title: "Streak x3", Description: "3-day streak.", Icon: "🔥"},
		Unlocked: func(r *ProgressRecord) bool { return r.Streak >= 3 },
	},
	{
		Badge:    Badge{ID: BadgeStreak7, Title: "Streak x7", Description: "7-day streak.", Icon: "💥"},
		Unlocked: func(r *ProgressRecord) bool { return r.Streak >= 7 },
	},
	{
		Badge:    Badge{ID: BadgeLevel5, Title: "Level 5", Description: "Reached level 5.", Icon: "⚡"},
		Unlocked: func(r *ProgressRecord) bool { return r.Level >= 5 },
	},
	{
		Badge:    Badge{ID: BadgeLevel10, Title: "Level 10", Description: "Reached level 10.", Icon: "👑"},
		Unlocked: func(r *ProgressRecord) bool { return r.Level >= 10 },
	},
}

// NewlyUnlocked returns, in table order, the badges whose rule holds for r
// and which r does not have yet
func NewlyUnlocked(r *ProgressRecord) []string {
	var ids []string
	for _, rule := range BadgeRules {
		if rule.Unlocked(r) && !r.HasBadge(rule.Badge.ID) {
			ids = append(ids, rule.Badge.ID)
		}
	}
	return ids
}

// LookupBadge returns catalog metadata for id
func LookupBadge(id string) (Badge, bool) {
	for _, rule := range BadgeRules {
		if rule.Badge.ID == id {
			return rule.Badge, true
		}
	}
	return Badge{}, false
}
