package gamification

import (
	"time"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

const (
	AchievementFirstCard  = "first-card"
	AchievementCreator10  = "card-creator-10"
	AchievementCreator50  = "card-creator-50"
	AchievementFirstStudy = "first-study"
	AchievementStreak7    = "streak-7"
	AchievementStreak30   = "streak-30"
	AchievementLevel5     = "level-5"
	AchievementLevel10    = "level-10"
	AchievementDeckMaster = "deck-master"
	AchievementQuizHero   = "quiz-hero"
)

const masteredIntervalInDays = 30

var AllAchievements = []Achievement{
	{AchievementFirstCard, "Card Maker", "Create your first card.", "✏️"},
	{AchievementCreator10, "Skilled Creator", "Create 10 new cards.", "✍️"},
	{AchievementCreator50, "Master Creator", "Create 50 new cards.", "📜"},
	{AchievementFirstStudy, "First Step", "Complete your first study session.", "🎓"},
	{AchievementStreak7, "Consistent Learner", "Reach a 7-day study streak.", "🔥"},
	{AchievementStreak30, "Streak Champion", "Reach a 30-day study streak.", "☄️"},
	{AchievementLevel5, "Level 5", "Reach user level 5.", "⭐"},
	{AchievementLevel10, "Level 10", "Reach user level 10.", "🌟"},
	{AchievementDeckMaster, "Deck Master", "Master a full deck (all cards have an interval over 30 days).", "🏆"},
	{AchievementQuizHero, "Quiz Hero", "Get a perfect score on a practice quiz.", "🎯"},
}

// LookupAchievement returns the catalogue entry for id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range AllAchievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

type QuizScore struct {
	Score int
	Total int
}

// AchievementContext is everything CheckAchievements looks at.
type AchievementContext struct {
	Cards     []models.Flashcard
	Decks     []models.Deck
	StudyLogs []models.StudyLog
	Profile   models.UserProfile
	Earned    []models.UserAchievement
	Quiz      *QuizScore
	Now       time.Time
}

// CheckAchievements returns the achievements newly earned in c, stamped with
// c.Now. Already earned ones are never returned again.
func CheckAchievements(c AchievementContext) []models.UserAchievement {
	earned := make(map[string]struct{}, len(c.Earned))
	for _, a := range c.Earned {
		earned[a.AchievementID] = struct{}{}
	}

	stamp := timex.FormatInstant(c.Now)
	var out []models.UserAchievement
	award := func(id string) {
		if _, ok := earned[id]; ok {
			return
		}
		earned[id] = struct{}{}
		out = append(out, models.UserAchievement{AchievementID: id, DateEarned: stamp})
	}

	cards := len(c.Cards)
	if cards >= 1 {
		award(AchievementFirstCard)
	}
	if cards >= 10 {
		award(AchievementCreator10)
	}
	if cards >= 50 {
		award(AchievementCreator50)
	}

	if len(c.StudyLogs) > 0 {
		award(AchievementFirstStudy)
	}
	streak := CalculateStreak(c.StudyLogs, c.Now)
	if streak >= 7 {
		award(AchievementStreak7)
	}
	if streak >= 30 {
		award(AchievementStreak30)
	}

	if c.Profile.Level >= 5 {
		award(AchievementLevel5)
	}
	if c.Profile.Level >= 10 {
		award(AchievementLevel10)
	}

	if c.Quiz != nil && c.Quiz.Total > 0 && c.Quiz.Score == c.Quiz.Total {
		award(AchievementQuizHero)
	}

	if hasMasteredDeck(c.Decks, c.Cards) {
		award(AchievementDeckMaster)
	}

	return out
}

func hasMasteredDeck(decks []models.Deck, cards []models.Flashcard) bool {
	for _, d := range decks {
		if d.IsDeleted {
			continue
		}
		n, mastered := 0, true
		for _, c := range cards {
			if c.DeckID != d.ID || c.IsDeleted {
				continue
			}
			n++
			if c.Interval <= masteredIntervalInDays {
				mastered = false
				break
			}
		}
		if n > 0 && mastered {
			return true
		}
	}
	return false
}
