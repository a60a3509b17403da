package domain

// NextStreak computes the streak after a study event on eventDay, given the
// previous streak and the last day anything was recorded.
func NextStreak(prev int, lastDay, eventDay string) int {
	if lastDay == "" {
		return 1
	}

	if lastDay == eventDay {
		return atLeastOne(prev)
	}

	diff, err := DaysBetween(lastDay, eventDay)
	if err != nil {
		// Unreadable history counts as no history.
		return 1
	}

	switch {
	case diff == 1:
		return prev + 1
	case diff > 1:
		return 1
	default:
		// Out-of-order event: it lands inside history that is already counted.
		return atLeastOne(prev)
	}
}

// LatestDay returns whichever of the two keys is later.
// An empty or unreadable lastDay yields eventDay.
func LatestDay(lastDay, eventDay string) string {
	if lastDay == "" {
		return eventDay
	}
	diff, err := DaysBetween(lastDay, eventDay)
	if err != nil || diff >= 0 {
		return eventDay
	}
	return lastDay
}

// ActiveStreak returns streak if it is still alive on today, i.e. the last
// study day is today or yesterday, and 0 otherwise.
func ActiveStreak(streak int, lastDay, today string) int {
	if lastDay == "" {
		return 0
	}
	diff, err := DaysBetween(lastDay, today)
	if err != nil || diff > 1 {
		return 0
	}
	return streak
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
