package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/gamification"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Reward is what a user action earned.
type Reward struct {
	XPGained        int
	Level           gamification.LevelInfo
	CompletedGoals  []models.DailyGoal
	NewAchievements []models.UserAchievement
}

// activity describes the progress side effects of one action.
type activity struct {
	xp        int
	goal      models.GoalType
	goalValue int
	quiz      *gamification.QuizScore
}

func loadProfile(ctx context.Context, r store.Repositories) (models.UserProfile, error) {
	p, err := r.Profile.Get(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	if p == nil {
		return models.DefaultProfile(), nil
	}
	return *p, nil
}

func grantXP(p *models.UserProfile, points int) {
	if points <= 0 {
		return
	}
	p.XP += points
	p.Level = gamification.CalculateLevel(p.XP).Level
}

// refreshGoals replaces a goal set that is not from today. It reports whether
// p changed.
func (c config) refreshGoals(ctx context.Context, r store.Repositories, p *models.UserProfile) (bool, error) {
	today := c.today()
	if p.DailyGoals != nil && p.DailyGoals.Date == today {
		return false, nil
	}
	logs, err := r.StudyLogs.List(ctx, nil)
	if err != nil {
		return false, err
	}
	streak := gamification.CalculateStreak(logs, c.now())
	p.DailyGoals = &models.DailyGoals{
		Date:  today,
		Goals: gamification.GenerateDailyGoals(streak, c.rand),
	}
	return true, nil
}

// record applies a to the profile, then awards whatever achievements the
// resulting state unlocks.
func (c config) record(ctx context.Context, r store.Repositories, a activity) (Reward, error) {
	p, err := loadProfile(ctx, r)
	if err != nil {
		return Reward{}, err
	}

	var res Reward
	xp := a.xp
	if a.goal != "" {
		if _, err := c.refreshGoals(ctx, r, &p); err != nil {
			return Reward{}, err
		}
		up := gamification.UpdateGoalProgress(p.DailyGoals, a.goal, a.goalValue)
		p.DailyGoals = up.Goals
		xp += up.XPGained
		res.CompletedGoals = up.NewlyCompleted
	}

	grantXP(&p, xp)
	if err := r.Profile.Put(ctx, p); err != nil {
		return Reward{}, err
	}

	earned, err := c.awardAchievements(ctx, r, p, a.quiz)
	if err != nil {
		return Reward{}, err
	}

	res.XPGained = max(xp, 0)
	res.Level = gamification.CalculateLevel(p.XP)
	res.NewAchievements = earned
	return res, nil
}

func (c config) awardAchievements(ctx context.Context, r store.Repositories, p models.UserProfile, quiz *gamification.QuizScore) ([]models.UserAchievement, error) {
	cards, err := r.Flashcards.List(ctx, liveCard)
	if err != nil {
		return nil, err
	}
	decks, err := r.Decks.List(ctx, liveDeck)
	if err != nil {
		return nil, err
	}
	logs, err := r.StudyLogs.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	earned, err := r.Achievements.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	fresh := gamification.CheckAchievements(gamification.AchievementContext{
		Cards:     cards,
		Decks:     decks,
		StudyLogs: logs,
		Profile:   p,
		Earned:    earned,
		Quiz:      quiz,
		Now:       c.now(),
	})
	if len(fresh) == 0 {
		return nil, nil
	}
	if err := r.Achievements.BulkPut(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}
	return fresh, nil
}

func liveCard(c models.Flashcard) bool { return !c.IsDeleted }

func liveDeck(d models.Deck) bool { return !d.IsDeleted }
