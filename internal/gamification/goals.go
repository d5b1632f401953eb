package gamification

import (
	"fmt"
	"math/rand/v2"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

const (
	dailyGoalsPerDay      = 3
	allGoalsCompleteBonus = 50
)

type goalTemplate struct {
	id          string
	goalType    models.GoalType
	description func(target int) string
	targets     []int
	xp          int
	minStreak   int
}

func reviewCards(t int) string { return fmt.Sprintf("Review %d cards", t) }
func keepStreak(t int) string  { return fmt.Sprintf("Maintain a %d-day streak", t) }

var goalTemplates = []goalTemplate{
	{id: "study", goalType: models.GoalStudy, description: reviewCards, targets: []int{5, 10}, xp: 15},
	{id: "study-lg", goalType: models.GoalStudy, description: reviewCards, targets: []int{15, 20}, xp: 30},
	{id: "complete-quiz", goalType: models.GoalQuiz, description: func(int) string { return "Complete 1 practice quiz" }, targets: []int{1}, xp: 25},
	{id: "maintain-streak-3", goalType: models.GoalStreak, description: keepStreak, targets: []int{3}, xp: 50, minStreak: 2},
	{id: "maintain-streak-7", goalType: models.GoalStreak, description: keepStreak, targets: []int{7}, xp: 100, minStreak: 6},
}

// GenerateDailyGoals picks up to three goal templates available at the given
// streak and instantiates them with fresh progress. A nil r uses the global
// source.
func GenerateDailyGoals(streak int, r *rand.Rand) []models.DailyGoal {
	intN := rand.IntN
	if r != nil {
		intN = r.IntN
	}

	available := make([]goalTemplate, 0, len(goalTemplates))
	for _, t := range goalTemplates {
		if streak >= t.minStreak {
			available = append(available, t)
		}
	}
	for i := len(available) - 1; i > 0; i-- {
		j := intN(i + 1)
		available[i], available[j] = available[j], available[i]
	}
	if len(available) > dailyGoalsPerDay {
		available = available[:dailyGoalsPerDay]
	}

	goals := make([]models.DailyGoal, 0, len(available))
	for _, t := range available {
		target := t.targets[intN(len(t.targets))]
		goals = append(goals, models.DailyGoal{
			ID:          fmt.Sprintf("%s-%d", t.id, target),
			Type:        t.goalType,
			Description: t.description(target),
			Target:      target,
			XP:          t.xp,
		})
	}
	return goals
}

// GoalUpdate is the outcome of UpdateGoalProgress.
type GoalUpdate struct {
	Goals          *models.DailyGoals
	XPGained       int
	NewlyCompleted []models.DailyGoal
}

// UpdateGoalProgress advances every incomplete goal of goalType. STREAK goals
// take value as their progress, the others accumulate it. The all-complete
// bonus is paid at most once per goal set. goals is not modified.
func UpdateGoalProgress(goals *models.DailyGoals, goalType models.GoalType, value int) GoalUpdate {
	if goals == nil {
		return GoalUpdate{}
	}

	next := &models.DailyGoals{
		Date:               goals.Date,
		Goals:              make([]models.DailyGoal, len(goals.Goals)),
		AllCompleteAwarded: goals.AllCompleteAwarded,
	}
	copy(next.Goals, goals.Goals)

	res := GoalUpdate{Goals: next}
	allComplete := true
	for i := range next.Goals {
		g := &next.Goals[i]
		if g.Type == goalType && !g.IsComplete {
			if goalType == models.GoalStreak {
				g.Progress = value
			} else {
				g.Progress += value
			}
			if g.Progress >= g.Target {
				g.IsComplete = true
				res.XPGained += g.XP
				res.NewlyCompleted = append(res.NewlyCompleted, *g)
			}
		}
		allComplete = allComplete && g.IsComplete
	}

	if allComplete && len(next.Goals) > 0 && !next.AllCompleteAwarded {
		res.XPGained += allGoalsCompleteBonus
		next.AllCompleteAwarded = true
	}
	return res
}
