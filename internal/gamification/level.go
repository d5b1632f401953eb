// Package gamification implements the progress rules layered on top of
// studying: XP levels, streaks, achievements and daily goals. Everything here
// is pure; callers persist the results.
package gamification

import "math"

const xpPerLevelBase = 150

type LevelInfo struct {
	Level          int
	Progress       int // percent towards the next level, 0..100
	CurrentLevelXP int
	NextLevelXP    int
	XP             int
}

// CalculateLevel maps total XP to a level where level n starts at
// (n-1)^2 * 150 XP.
func CalculateLevel(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}

	level := int(math.Floor(math.Sqrt(float64(xp)/xpPerLevelBase))) + 1
	current := (level - 1) * (level - 1) * xpPerLevelBase
	next := level * level * xpPerLevelBase

	progress := 100
	if span := next - current; span > 0 {
		progress = int(math.Round(float64(xp-current) / float64(span) * 100))
	}

	return LevelInfo{
		Level:          level,
		Progress:       min(progress, 100),
		CurrentLevelXP: current,
		NextLevelXP:    next,
		XP:             xp,
	}
}
