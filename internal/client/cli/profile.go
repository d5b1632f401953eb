package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/client/services"
	"github.com/dmitrijs2005/linguacards/internal/gamification"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	lvl := gamification.CalculateLevel(p.XP)

	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		a.printf("%s\n", name)
	}
	if p.Bio != "" {
		a.printf("%s\n", p.Bio)
	}
	a.printf("Level %d, %d XP (%d%% to level %d)\n", lvl.Level, lvl.XP, lvl.Progress, lvl.Level+1)

	if p.DailyGoals != nil && len(p.DailyGoals.Goals) > 0 {
		a.printf("Goals for %s:\n", p.DailyGoals.Date)
		for _, g := range p.DailyGoals.Goals {
			mark := " "
			if g.IsComplete {
				mark = "x"
			}
			a.printf("  [%s] %s (%d/%d, +%d XP)\n", mark, g.Description, min(g.Progress, g.Target), g.Target, g.XP)
		}
	}

	earned, err := a.profile.Achievements(ctx)
	if err != nil {
		return err
	}
	for _, e := range earned {
		if ach, ok := gamification.LookupAchievement(e.AchievementID); ok {
			a.printf("  %s %s (%s)\n", ach.Icon, ach.Name, shortDate(e.DateEarned))
		}
	}
	return nil
}

func (a *App) EditProfile(ctx context.Context) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	in := services.ProfileInput{FirstName: p.FirstName, LastName: p.LastName, Bio: p.Bio}
	for _, f := range []struct {
		prompt string
		value  *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Bio", &in.Bio},
	} {
		v, err := getSimpleText(a.reader, withCurrent(f.prompt, *f.value), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.value = v
		}
	}
	if _, err := a.profile.Update(ctx, in); err != nil {
		return err
	}
	a.printf("Profile updated.\n")
	return nil
}

func (a *App) printReward(r services.Reward) {
	if r.XPGained > 0 {
		a.printf("+%d XP\n", r.XPGained)
	}
	for _, g := range r.CompletedGoals {
		a.printf("Goal complete: %s (+%d XP)\n", g.Description, g.XP)
	}
	for _, e := range r.NewAchievements {
		if ach, ok := gamification.LookupAchievement(e.AchievementID); ok {
			a.printf("Achievement unlocked: %s %s\n", ach.Icon, ach.Name)
		}
	}
}
