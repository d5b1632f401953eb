package merge

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

// Merge reconciles a local snapshot with a remote one.
func Merge(local, remote models.SyncData) models.SyncData {
	return models.SyncData{
		Decks:            Decks(local.Decks, remote.Decks),
		Cards:            Flashcards(local.Cards, remote.Cards),
		StudyHistory:     StudyLogs(local.StudyHistory, remote.StudyHistory),
		UserProfile:      Profile(local.UserProfile, remote.UserProfile),
		UserAchievements: Achievements(local.UserAchievements, remote.UserAchievements),
	}
}

// Normalize returns d with duplicates collapsed and collections sorted the
// way Merge emits them.
func Normalize(d models.SyncData) models.SyncData {
	return Merge(d, models.SyncData{})
}

func Decks(local, remote []models.Deck) []models.Deck {
	merged := make(map[string]models.Deck, len(local)+len(remote))
	for _, d := range remote {
		merged[d.ID] = d
	}
	for _, d := range local {
		if r, ok := merged[d.ID]; ok {
			d.IsDeleted = d.IsDeleted || r.IsDeleted
		}
		merged[d.ID] = d
	}
	return sortedValues(merged, func(d models.Deck) string { return d.ID })
}

func Flashcards(local, remote []models.Flashcard) []models.Flashcard {
	merged := make(map[string]models.Flashcard, len(local)+len(remote))
	for _, c := range remote {
		merged[c.ID] = c
	}
	for _, c := range local {
		r, ok := merged[c.ID]
		if !ok {
			merged[c.ID] = c
			continue
		}
		winner := c
		if timex.ParseInstant(r.UpdatedAt).After(timex.ParseInstant(c.UpdatedAt)) {
			winner = r
		}
		winner.IsDeleted = c.IsDeleted || r.IsDeleted
		merged[c.ID] = winner
	}
	return sortedValues(merged, func(c models.Flashcard) string { return c.ID })
}

// StudyLogs unions both histories. When an entry exists on both sides the
// local one is kept so that its device row id survives.
func StudyLogs(local, remote []models.StudyLog) []models.StudyLog {
	merged := make(map[models.StudyLogKey]models.StudyLog, len(local)+len(remote))
	for _, l := range remote {
		l.ID = 0
		merged[l.Key()] = l
	}
	for _, l := range local {
		if prev, ok := merged[l.Key()]; ok && prev.ID != 0 && l.ID == 0 {
			continue
		}
		merged[l.Key()] = l
	}

	out := make([]models.StudyLog, 0, len(merged))
	for _, l := range merged {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b models.StudyLog) int {
		return cmp.Or(
			strings.Compare(a.Date, b.Date),
			strings.Compare(a.CardID, b.CardID),
			strings.Compare(string(a.Rating), string(b.Rating)),
		)
	})
	return out
}

// Achievements unions both sides. The earliest valid dateEarned wins; an
// unparseable date loses to a valid one and local wins a tie.
func Achievements(local, remote []models.UserAchievement) []models.UserAchievement {
	merged := make(map[string]models.UserAchievement, len(local)+len(remote))
	for _, a := range remote {
		merged[a.AchievementID] = a
	}
	for _, a := range local {
		if r, ok := merged[a.AchievementID]; ok && earnedEarlier(r.DateEarned, a.DateEarned) {
			continue
		}
		merged[a.AchievementID] = a
	}
	return sortedValues(merged, func(a models.UserAchievement) string { return a.AchievementID })
}

// earnedEarlier reports whether date a strictly precedes date b, where a
// missing or invalid date never precedes anything.
func earnedEarlier(a, b string) bool {
	ta, tb := timex.ParseInstant(a), timex.ParseInstant(b)
	if ta.IsZero() {
		return false
	}
	if tb.IsZero() {
		return true
	}
	return ta.Before(tb)
}

func sortedValues[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return strings.Compare(key(a), key(b)) })
	return out
}
