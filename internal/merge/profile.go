package merge

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

// Profile merges the singleton profile. The result always carries
// models.ProfileID.
func Profile(local, remote *models.UserProfile) *models.UserProfile {
	switch {
	case local == nil && remote == nil:
		return nil
	case remote == nil:
		return cloneProfile(local)
	case local == nil:
		return cloneProfile(remote)
	}

	newer := local
	if timex.ParseInstant(remote.ProfileLastUpdated).After(timex.ParseInstant(local.ProfileLastUpdated)) {
		newer = remote
	}

	lastStreakCheck := remote.LastStreakCheck
	if timex.ParseInstant(local.LastStreakCheck).After(timex.ParseInstant(remote.LastStreakCheck)) {
		lastStreakCheck = local.LastStreakCheck
	}

	return &models.UserProfile{
		ID:                 models.ProfileID,
		FirstName:          newer.FirstName,
		LastName:           newer.LastName,
		Bio:                newer.Bio,
		ProfileLastUpdated: newer.ProfileLastUpdated,
		XP:                 max(local.XP, remote.XP),
		Level:              max(local.Level, remote.Level),
		LastStreakCheck:    lastStreakCheck,
		DailyGoals:         mergeDailyGoals(local.DailyGoals, remote.DailyGoals),
	}
}

// mergeDailyGoals keeps the goal set of the later day. Sets of the same day
// are unioned by goal id; for a goal on both sides the higher progress wins
// together with its completion flag, and allCompleteAwarded is the OR.
func mergeDailyGoals(local, remote *models.DailyGoals) *models.DailyGoals {
	switch {
	case local == nil && remote == nil:
		return nil
	case remote == nil:
		return cloneGoals(local)
	case local == nil:
		return cloneGoals(remote)
	}

	switch c := compareDays(local.Date, remote.Date); {
	case c > 0:
		return cloneGoals(local)
	case c < 0:
		return cloneGoals(remote)
	}

	goals := slices.Clone(remote.Goals)
	index := make(map[string]int, len(goals))
	for i, g := range goals {
		index[g.ID] = i
	}
	for _, g := range local.Goals {
		i, ok := index[g.ID]
		if !ok {
			index[g.ID] = len(goals)
			goals = append(goals, g)
			continue
		}
		if g.Progress > goals[i].Progress {
			goals[i].Progress = g.Progress
			goals[i].IsComplete = g.IsComplete
		}
	}
	if goals == nil {
		goals = []models.DailyGoal{}
	}

	return &models.DailyGoals{
		Date:               local.Date,
		Goals:              goals,
		AllCompleteAwarded: local.AllCompleteAwarded || remote.AllCompleteAwarded,
	}
}

// compareDays orders two calendar days, falling back to string order when
// neither parses.
func compareDays(a, b string) int {
	ta, tb := timex.ParseInstant(a), timex.ParseInstant(b)
	if c := ta.Compare(tb); c != 0 || !ta.IsZero() {
		return c
	}
	return strings.Compare(a, b)
}

func cloneProfile(p *models.UserProfile) *models.UserProfile {
	c := *p
	c.ID = models.ProfileID
	c.DailyGoals = cloneGoals(p.DailyGoals)
	return &c
}

func cloneGoals(g *models.DailyGoals) *models.DailyGoals {
	if g == nil {
		return nil
	}
	c := *g
	c.Goals = slices.Clone(g.Goals)
	if c.Goals == nil {
		c.Goals = []models.DailyGoal{}
	}
	return &c
}
