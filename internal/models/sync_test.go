package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncData_DecodesWebClientDocument(t *testing.T) {
	doc := `{
	  "decks": [{"id":"default","name":"Default Deck"},{"id":"d1","name":"Verbs","isDeleted":true}],
	  "cards": [{"id":"1714550000000","deckId":"d1","front":"go","back":"رفتن","definition":["move"],
	             "createdAt":"2024-05-01T08:00:00.000Z","repetition":2,"easinessFactor":2.5,"interval":6,
	             "dueDate":"2024-05-07T00:00:00.000Z"}],
	  "studyHistory": [{"id":7,"cardId":"1714550000000","date":"2024-05-01","rating":"GOOD"}],
	  "userProfile": {"id":1,"xp":120,"level":1,"lastStreakCheck":"2024-05-01",
	                  "dailyGoals":{"date":"2024-05-01","goals":[{"id":"study-5","type":"STUDY","description":"Review 5 cards","target":5,"progress":3,"xp":15,"isComplete":false}],"allCompleteAwarded":false}},
	  "userAchievements": [{"achievementId":"first-card","dateEarned":"2024-05-01T08:00:00.000Z"}]
	}`

	var d SyncData
	require.NoError(t, json.Unmarshal([]byte(doc), &d))

	require.Len(t, d.Decks, 2)
	assert.True(t, d.Decks[1].IsDeleted)
	require.Len(t, d.Cards, 1)
	assert.Equal(t, []string{"move"}, d.Cards[0].Definition)
	assert.Equal(t, "", d.Cards[0].UpdatedAt)
	require.Len(t, d.StudyHistory, 1)
	assert.Zero(t, d.StudyHistory[0].ID, "device-local ids are not taken from the wire")
	require.NotNil(t, d.UserProfile)
	require.NotNil(t, d.UserProfile.DailyGoals)
	assert.Equal(t, 3, d.UserProfile.DailyGoals.Goals[0].Progress)
	assert.NoError(t, d.Validate())
}

func TestSyncData_EncodesEmptyCollectionsAsArrays(t *testing.T) {
	b, err := json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{"decks":[],"cards":[],"studyHistory":[],"userAchievements":[]}`, string(b))
}

func TestSyncData_Validate(t *testing.T) {
	tests := []struct {
		name string
		data SyncData
	}{
		{name: "deck without id", data: SyncData{Decks: []Deck{{Name: "x"}}}},
		{name: "card without id", data: SyncData{Cards: []Flashcard{{Front: "x"}}}},
		{name: "log without card", data: SyncData{StudyHistory: []StudyLog{{Date: "2024-05-01"}}}},
		{name: "achievement without id", data: SyncData{UserAchievements: []UserAchievement{{DateEarned: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidPayload))
		})
	}
}

func TestRating_Valid(t *testing.T) {
	assert.True(t, RatingAgain.Valid())
	assert.True(t, RatingGood.Valid())
	assert.True(t, RatingEasy.Valid())
	assert.False(t, Rating("HARD").Valid())
}
