// Package srs schedules flashcard reviews.
package srs

import (
	"math"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

const (
	MinEasiness     = 1.3
	DefaultEasiness = 2.5

	againPenalty = 0.2
	easyBonus    = 0.15
)

// Scheduler computes the next review state of a card.
type Scheduler interface {
	Schedule(card models.Flashcard, rating models.Rating) models.Flashcard
}

// SM2 is a simplified SM-2 scheduler: GOOD leaves the easiness factor as is.
type SM2 struct {
	Now func() time.Time
}

// NewSM2 returns a scheduler reading the clock from now; nil means time.Now.
func NewSM2(now func() time.Time) *SM2 {
	if now == nil {
		now = time.Now
	}
	return &SM2{Now: now}
}

// Schedule returns a copy of card with repetition, interval, easiness factor
// and due date updated for rating. The due date is local midnight plus the
// interval in days.
func (s *SM2) Schedule(card models.Flashcard, rating models.Rating) models.Flashcard {
	rep, interval, ef := card.Repetition, card.Interval, card.EasinessFactor
	if ef == 0 {
		ef = DefaultEasiness
	}

	if rating == models.RatingAgain {
		rep = 0
		interval = 1
		ef = math.Max(MinEasiness, ef-againPenalty)
	} else {
		rep++
		switch rep {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Ceil(float64(interval) * ef))
		}
		if rating == models.RatingEasy {
			ef += easyBonus
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	card.Repetition = rep
	card.Interval = interval
	card.EasinessFactor = ef
	card.DueDate = timex.FormatInstant(StartOfDay(now()).AddDate(0, 0, interval))
	return card
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDue reports whether card should be reviewed at now.
func IsDue(card models.Flashcard, now time.Time) bool {
	if card.IsDeleted {
		return false
	}
	due := timex.ParseInstant(card.DueDate)
	return !due.After(now)
}
