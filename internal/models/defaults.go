package models

import "github.com/dmitrijs2005/linguacards/internal/timex"

// DefaultDeckID identifies the deck every new local store starts with.
const DefaultDeckID = "default"

// DefaultDeck is seeded into a fresh or wiped local store.
func DefaultDeck() Deck {
	return Deck{ID: DefaultDeckID, Name: "Default Deck"}
}

// DefaultProfile is the profile of a user with no progress. Its timestamps are
// the epoch so that any edited profile wins a merge against it.
func DefaultProfile() UserProfile {
	return UserProfile{
		ID:                 ProfileID,
		XP:                 0,
		Level:              1,
		ProfileLastUpdated: timex.EpochISO,
		DailyGoals:         DefaultDailyGoals(),
	}
}

// DefaultDailyGoals is the placeholder goal set; its date is earlier than any
// real day so a generated set always supersedes it.
func DefaultDailyGoals() *DailyGoals {
	return &DailyGoals{Date: "1970-01-01", Goals: []DailyGoal{}}
}
