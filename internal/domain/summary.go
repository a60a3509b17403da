package domain

// BadgeStatus pairs a catalog badge with whether the user holds it
type BadgeStatus struct {
	Badge    Badge
	Unlocked bool
}

// ProgressSummary is the read model shown to the user
type ProgressSummary struct {
	UserID         string
	Level          LevelProgress
	XP             int64
	TotalMinutes   int64
	TodayMinutes   int64
	Streak         int
	LastStudiedDay string
	Week           []Day // oldest first, today last
	Badges         []BadgeStatus
}
