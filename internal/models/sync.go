// Package models defines the synchronized entities shared by the device and
// the sync server. JSON names match the web client's wire format.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
)

// ProfileID is the fixed identity of the singleton user profile.
const ProfileID = 1

type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
)

// Valid reports whether r is one of the known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingAgain, RatingGood, RatingEasy:
		return true
	}
	return false
}

type GoalType string

const (
	GoalStudy  GoalType = "STUDY"
	GoalQuiz   GoalType = "QUIZ"
	GoalStreak GoalType = "STREAK"
)

type Deck struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted,omitempty"`
}

type Flashcard struct {
	ID                    string   `json:"id"`
	DeckID                string   `json:"deckId"`
	Front                 string   `json:"front"`
	Back                  string   `json:"back"`
	Pronunciation         string   `json:"pronunciation,omitempty"`
	PartOfSpeech          string   `json:"partOfSpeech,omitempty"`
	Definition            []string `json:"definition,omitempty"`
	ExampleSentenceTarget []string `json:"exampleSentenceTarget,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
	IsDeleted             bool     `json:"isDeleted,omitempty"`
	CreatedAt             string   `json:"createdAt"`
	UpdatedAt             string   `json:"updatedAt,omitempty"`
	AudioSrc              string   `json:"audioSrc,omitempty"`

	Repetition     int     `json:"repetition"`
	EasinessFactor float64 `json:"easinessFactor"`
	Interval       int     `json:"interval"`
	DueDate        string  `json:"dueDate"`
}

// StudyLog is an immutable review fact. ID is the device-local row id and is
// never sent over the wire: the identity of a log is its composite key.
type StudyLog struct {
	ID     int64  `json:"-"`
	CardID string `json:"cardId"`
	Date   string `json:"date"`
	Rating Rating `json:"rating"`
}

// StudyLogKey is the identity of a StudyLog.
type StudyLogKey struct {
	CardID string
	Date   string
	Rating Rating
}

func (l StudyLog) Key() StudyLogKey {
	return StudyLogKey{CardID: l.CardID, Date: l.Date, Rating: l.Rating}
}

type DailyGoal struct {
	ID          string   `json:"id"`
	Type        GoalType `json:"type"`
	Description string   `json:"description"`
	Target      int      `json:"target"`
	Progress    int      `json:"progress"`
	XP          int      `json:"xp"`
	IsComplete  bool     `json:"isComplete"`
}

type DailyGoals struct {
	Date               string      `json:"date"`
	Goals              []DailyGoal `json:"goals"`
	AllCompleteAwarded bool        `json:"allCompleteAwarded"`
}

type UserProfile struct {
	ID                 int         `json:"id"`
	FirstName          string      `json:"firstName,omitempty"`
	LastName           string      `json:"lastName,omitempty"`
	Bio                string      `json:"bio,omitempty"`
	XP                 int         `json:"xp"`
	Level              int         `json:"level"`
	LastStreakCheck    string      `json:"lastStreakCheck"`
	ProfileLastUpdated string      `json:"profileLastUpdated,omitempty"`
	DailyGoals         *DailyGoals `json:"dailyGoals,omitempty"`
}

type UserAchievement struct {
	AchievementID string `json:"achievementId"`
	DateEarned    string `json:"dateEarned"`
}

// SyncData is the full per-account snapshot exchanged during sync.
type SyncData struct {
	Decks            []Deck            `json:"decks"`
	Cards            []Flashcard       `json:"cards"`
	StudyHistory     []StudyLog        `json:"studyHistory"`
	UserProfile      *UserProfile      `json:"userProfile,omitempty"`
	UserAchievements []UserAchievement `json:"userAchievements"`
}

// Empty returns a snapshot with non-nil, empty collections; it is what a new
// account starts with.
func Empty() SyncData {
	return SyncData{
		Decks:            []Deck{},
		Cards:            []Flashcard{},
		StudyHistory:     []StudyLog{},
		UserAchievements: []UserAchievement{},
	}
}

// Validate checks that every entity carries its identity. It returns an error
// wrapping common.ErrInvalidPayload.
func (d SyncData) Validate() error {
	for i, deck := range d.Decks {
		if deck.ID == "" {
			return fmt.Errorf("decks[%d]: missing id: %w", i, common.ErrInvalidPayload)
		}
	}
	for i, card := range d.Cards {
		if card.ID == "" {
			return fmt.Errorf("cards[%d]: missing id: %w", i, common.ErrInvalidPayload)
		}
	}
	for i, log := range d.StudyHistory {
		if log.CardID == "" || log.Date == "" {
			return fmt.Errorf("studyHistory[%d]: missing cardId or date: %w", i, common.ErrInvalidPayload)
		}
	}
	for i, a := range d.UserAchievements {
		if a.AchievementID == "" {
			return fmt.Errorf("userAchievements[%d]: missing achievementId: %w", i, common.ErrInvalidPayload)
		}
	}
	return nil
}
