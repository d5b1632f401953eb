package gamification

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

// CalculateStreak counts consecutive study days ending today or yesterday.
// A gap before yesterday means the streak is broken.
func CalculateStreak(logs []models.StudyLog, now time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(logs))
	days := make([]string, 0, len(logs))
	for _, l := range logs {
		if _, ok := seen[l.Date]; ok {
			continue
		}
		seen[l.Date] = struct{}{}
		days = append(days, l.Date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	today := timex.FormatDate(now)
	yesterday := timex.FormatDate(now.AddDate(0, 0, -1))
	if days[0] != today && days[0] != yesterday {
		return 0
	}

	cur, err := time.Parse(timex.DateLayout, days[0])
	if err != nil {
		return 0
	}

	streak := 1
	for _, d := range days[1:] {
		prev := cur.AddDate(0, 0, -1)
		if d != prev.Format(timex.DateLayout) {
			break
		}
		streak++
		cur = prev
	}
	return streak
}
