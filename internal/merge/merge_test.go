package merge

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() models.SyncData {
	return models.SyncData{
		Decks: []models.Deck{
			{ID: "default", Name: "Default Deck"},
			{ID: "d1", Name: "Verbs"},
			{ID: "d2", Name: "Old", IsDeleted: true},
		},
		Cards: []models.Flashcard{
			{ID: "c1", DeckID: "d1", Front: "go", Back: "رفتن", CreatedAt: "2024-05-01T08:00:00.000Z", UpdatedAt: "2024-05-01T08:00:00.000Z", EasinessFactor: 2.5},
			{ID: "c2", DeckID: "d2", Front: "eat", Back: "خوردن", CreatedAt: "2024-05-01T08:00:00.000Z", IsDeleted: true, EasinessFactor: 2.5},
		},
		StudyHistory: []models.StudyLog{
			{CardID: "c1", Date: "2024-05-01", Rating: models.RatingGood},
			{CardID: "c1", Date: "2024-05-02", Rating: models.RatingAgain},
		},
		UserProfile: &models.UserProfile{
			ID: 1, FirstName: "Ali", XP: 120, Level: 1, LastStreakCheck: "2024-05-02",
			ProfileLastUpdated: "2024-05-01T09:00:00.000Z",
			DailyGoals: &models.DailyGoals{Date: "2024-05-02", Goals: []models.DailyGoal{
				{ID: "study-5", Type: models.GoalStudy, Target: 5, Progress: 2, XP: 15},
			}},
		},
		UserAchievements: []models.UserAchievement{
			{AchievementID: "first-card", DateEarned: "2024-05-01T08:00:00.000Z"},
		},
	}
}

func TestMerge_Idempotent(t *testing.T) {
	x := fixture()
	assert.Empty(t, cmp.Diff(Normalize(x), Merge(x, x)))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		x := randomSnapshot(rng)
		assert.Empty(t, cmp.Diff(Normalize(x), Merge(x, x)), "snapshot #%d", i)
	}
}

func TestMerge_TombstonesAreSticky(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		local, remote := randomSnapshot(rng), randomSnapshot(rng)
		merged := Merge(local, remote)

		deleted := map[string]bool{}
		for _, d := range append(local.Decks, remote.Decks...) {
			deleted["deck:"+d.ID] = deleted["deck:"+d.ID] || d.IsDeleted
		}
		for _, c := range append(local.Cards, remote.Cards...) {
			deleted["card:"+c.ID] = deleted["card:"+c.ID] || c.IsDeleted
		}

		for _, d := range merged.Decks {
			if deleted["deck:"+d.ID] {
				assert.True(t, d.IsDeleted, "deck %s resurrected", d.ID)
			}
		}
		for _, c := range merged.Cards {
			if deleted["card:"+c.ID] {
				assert.True(t, c.IsDeleted, "card %s resurrected", c.ID)
			}
		}
	}
}

func TestMerge_ProgressNeverRegresses(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 100; i++ {
		local, remote := randomSnapshot(rng), randomSnapshot(rng)
		merged := Merge(local, remote)
		require.NotNil(t, merged.UserProfile)
		assert.GreaterOrEqual(t, merged.UserProfile.XP, max(local.UserProfile.XP, remote.UserProfile.XP))
		assert.GreaterOrEqual(t, merged.UserProfile.Level, max(local.UserProfile.Level, remote.UserProfile.Level))
	}
}

func TestMerge_NoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 100; i++ {
		local, remote := randomSnapshot(rng), randomSnapshot(rng)
		merged := Merge(local, remote)

		deckIDs := map[string]struct{}{}
		for _, d := range append(local.Decks, remote.Decks...) {
			deckIDs[d.ID] = struct{}{}
		}
		cardIDs := map[string]struct{}{}
		for _, c := range append(local.Cards, remote.Cards...) {
			cardIDs[c.ID] = struct{}{}
		}
		logKeys := map[models.StudyLogKey]struct{}{}
		for _, l := range append(local.StudyHistory, remote.StudyHistory...) {
			logKeys[l.Key()] = struct{}{}
		}
		achIDs := map[string]struct{}{}
		for _, a := range append(local.UserAchievements, remote.UserAchievements...) {
			achIDs[a.AchievementID] = struct{}{}
		}

		assert.Len(t, merged.Decks, len(deckIDs))
		assert.Len(t, merged.Cards, len(cardIDs))
		assert.Len(t, merged.StudyHistory, len(logKeys))
		assert.Len(t, merged.UserAchievements, len(achIDs))
	}
}

func TestFlashcards_RemoteNewerAndDeletedWins(t *testing.T) {
	local := []models.Flashcard{{ID: "42", Back: "x", UpdatedAt: "2024-05-01T10:00:00.000Z"}}
	remote := []models.Flashcard{{ID: "42", Back: "y", UpdatedAt: "2024-05-02T10:00:00.000Z", IsDeleted: true}}

	merged := Flashcards(local, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, "y", merged[0].Back)
	assert.True(t, merged[0].IsDeleted)
}

func TestFlashcards_Conflicts(t *testing.T) {
	tests := []struct {
		name        string
		local       models.Flashcard
		remote      models.Flashcard
		wantBack    string
		wantDeleted bool
	}{
		{
			name:     "local newer",
			local:    models.Flashcard{ID: "c", Back: "local", UpdatedAt: "2024-05-03T00:00:00.000Z"},
			remote:   models.Flashcard{ID: "c", Back: "remote", UpdatedAt: "2024-05-02T00:00:00.000Z"},
			wantBack: "local",
		},
		{
			name:     "equal timestamps pick local",
			local:    models.Flashcard{ID: "c", Back: "local", UpdatedAt: "2024-05-02T00:00:00.000Z"},
			remote:   models.Flashcard{ID: "c", Back: "remote", UpdatedAt: "2024-05-02T00:00:00.000Z"},
			wantBack: "local",
		},
		{
			name:     "missing timestamps are epoch",
			local:    models.Flashcard{ID: "c", Back: "local"},
			remote:   models.Flashcard{ID: "c", Back: "remote", UpdatedAt: "2024-05-02T00:00:00.000Z"},
			wantBack: "remote",
		},
		{
			name:        "older local deletion still sticks",
			local:       models.Flashcard{ID: "c", Back: "local", UpdatedAt: "2024-05-01T00:00:00.000Z", IsDeleted: true},
			remote:      models.Flashcard{ID: "c", Back: "remote", UpdatedAt: "2024-05-02T00:00:00.000Z"},
			wantBack:    "remote",
			wantDeleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Flashcards([]models.Flashcard{tt.local}, []models.Flashcard{tt.remote})
			require.Len(t, merged, 1)
			assert.Equal(t, tt.wantBack, merged[0].Back)
			assert.Equal(t, tt.wantDeleted, merged[0].IsDeleted)
		})
	}
}

func TestDecks_LocalFieldsOverwriteRemote(t *testing.T) {
	local := []models.Deck{{ID: "d1", Name: "Renamed"}, {ID: "d3", Name: "Local only"}}
	remote := []models.Deck{{ID: "d1", Name: "Verbs", IsDeleted: true}, {ID: "d2", Name: "Remote only"}}

	want := []models.Deck{
		{ID: "d1", Name: "Renamed", IsDeleted: true},
		{ID: "d2", Name: "Remote only"},
		{ID: "d3", Name: "Local only"},
	}
	assert.Empty(t, cmp.Diff(want, Decks(local, remote)))
}

func TestStudyLogs_DuplicatesCollapse(t *testing.T) {
	entry := models.StudyLog{CardID: "c1", Date: "2024-05-01", Rating: models.RatingGood}

	merged := StudyLogs([]models.StudyLog{entry}, []models.StudyLog{entry})

	assert.Equal(t, []models.StudyLog{entry}, merged)
}

func TestStudyLogs_KeepsLocalRowID(t *testing.T) {
	local := []models.StudyLog{{ID: 9, CardID: "c1", Date: "2024-05-01", Rating: models.RatingGood}}
	remote := []models.StudyLog{
		{ID: 3, CardID: "c1", Date: "2024-05-01", Rating: models.RatingGood},
		{ID: 4, CardID: "c2", Date: "2024-05-01", Rating: models.RatingEasy},
	}

	merged := StudyLogs(local, remote)

	require.Len(t, merged, 2)
	assert.Equal(t, int64(9), merged[0].ID)
	assert.Zero(t, merged[1].ID, "remote row ids belong to another device")
}

func TestAchievements_EarliestDateWins(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   string
	}{
		{name: "remote earlier", local: "2024-05-03T00:00:00.000Z", remote: "2024-05-01T00:00:00.000Z", want: "2024-05-01T00:00:00.000Z"},
		{name: "local earlier", local: "2024-05-01T00:00:00.000Z", remote: "2024-05-03T00:00:00.000Z", want: "2024-05-01T00:00:00.000Z"},
		{name: "tie keeps local", local: "2024-05-01T00:00:00Z", remote: "2024-05-01T00:00:00.000Z", want: "2024-05-01T00:00:00Z"},
		{name: "invalid local loses", local: "", remote: "2024-05-03T00:00:00.000Z", want: "2024-05-03T00:00:00.000Z"},
		{name: "invalid remote loses", local: "2024-05-03T00:00:00.000Z", remote: "soon", want: "2024-05-03T00:00:00.000Z"},
		{name: "both invalid keeps local", local: "x", remote: "y", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Achievements(
				[]models.UserAchievement{{AchievementID: "streak-7", DateEarned: tt.local}},
				[]models.UserAchievement{{AchievementID: "streak-7", DateEarned: tt.remote}},
			)
			require.Len(t, merged, 1)
			assert.Equal(t, tt.want, merged[0].DateEarned)
		})
	}
}

func TestMerge_EmptyInputsYieldEmptyCollections(t *testing.T) {
	merged := Merge(models.SyncData{}, models.SyncData{})

	assert.NotNil(t, merged.Decks)
	assert.NotNil(t, merged.Cards)
	assert.NotNil(t, merged.StudyHistory)
	assert.NotNil(t, merged.UserAchievements)
	assert.Nil(t, merged.UserProfile)
}

func randomSnapshot(rng *rand.Rand) models.SyncData {
	ids := []string{"a", "b", "c", "d", "e"}
	days := []string{"", "2024-05-01", "2024-05-02", "2024-05-03"}
	instants := []string{"", "2024-05-01T10:00:00.000Z", "2024-05-02T10:00:00.000Z", "not a date"}
	ratings := []models.Rating{models.RatingAgain, models.RatingGood, models.RatingEasy}

	var d models.SyncData
	for _, id := range ids {
		if rng.Intn(2) == 0 {
			d.Decks = append(d.Decks, models.Deck{ID: id, Name: fmt.Sprintf("deck %d", rng.Intn(3)), IsDeleted: rng.Intn(3) == 0})
		}
		if rng.Intn(2) == 0 {
			d.Cards = append(d.Cards, models.Flashcard{
				ID: id, DeckID: ids[rng.Intn(len(ids))], Back: fmt.Sprintf("back %d", rng.Intn(3)),
				UpdatedAt: instants[rng.Intn(len(instants))], IsDeleted: rng.Intn(3) == 0,
			})
		}
		if rng.Intn(2) == 0 {
			d.StudyHistory = append(d.StudyHistory, models.StudyLog{CardID: id, Date: days[1+rng.Intn(3)], Rating: ratings[rng.Intn(3)]})
		}
		if rng.Intn(2) == 0 {
			d.UserAchievements = append(d.UserAchievements, models.UserAchievement{AchievementID: id, DateEarned: instants[rng.Intn(len(instants))]})
		}
	}

	goals := []models.DailyGoal{}
	for _, id := range ids[:rng.Intn(4)] {
		goals = append(goals, models.DailyGoal{ID: id, Type: models.GoalStudy, Target: 10, Progress: rng.Intn(11)})
	}
	d.UserProfile = &models.UserProfile{
		ID:                 1,
		FirstName:          fmt.Sprintf("name %d", rng.Intn(3)),
		XP:                 rng.Intn(1000),
		Level:              1 + rng.Intn(5),
		LastStreakCheck:    days[rng.Intn(len(days))],
		ProfileLastUpdated: instants[rng.Intn(len(instants))],
		DailyGoals:         &models.DailyGoals{Date: days[1+rng.Intn(3)], Goals: goals, AllCompleteAwarded: rng.Intn(2) == 0},
	}
	return d
}
