package domain

const (
	// MaxLevel is the hard level ceiling
	MaxLevel = 99

	// BaseLevelCost is the xp needed to go from level 1 to level 2
	BaseLevelCost int64 = 120

	// XPPerMinute is the xp granted per studied minute
	XPPerMinute int64 = 5
)

// nextLevelCost grows the per-level cost by 12% (floored) plus 25
func nextLevelCost(cost int64) int64 {
	return cost*112/100 + 25
}

// LevelFromXP maps cumulative xp to a level, starting at 1
func LevelFromXP(xp int64) int {
	return LevelProgressFor(xp).Level
}

// LevelProgress describes where an xp total sits on the leveling curve
type LevelProgress struct {
	Level       int
	XPIntoLevel int64
	XPForNext   int64 // 0 at MaxLevel
}

// LevelProgressFor walks the leveling curve for xp
func LevelProgressFor(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}

	level := 1
	cost := BaseLevelCost
	remaining := xp

	for level < MaxLevel && remaining >= cost {
		remaining -= cost
		level++
		cost = nextLevelCost(cost)
	}

	if level == MaxLevel {
		return LevelProgress{Level: level, XPIntoLevel: remaining}
	}

	return LevelProgress{Level: level, XPIntoLevel: remaining, XPForNext: cost}
}
