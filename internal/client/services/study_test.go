package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/gamification"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshCard(id string) models.Flashcard {
	return models.Flashcard{
		ID: id, DeckID: models.DefaultDeckID, Front: "gato", Back: "cat",
		EasinessFactor: 2.5, CreatedAt: testStamp, UpdatedAt: testStamp, DueDate: testStamp,
	}
}

func studyLogs(t *testing.T, st *store.Store) []models.StudyLog {
	t.Helper()
	var logs []models.StudyLog
	require.NoError(t, st.InTx(context.Background(), func(ctx context.Context, r store.Repositories) (err error) {
		logs, err = r.StudyLogs.List(ctx, nil)
		return err
	}))
	return logs
}

func TestReview_SchedulesLogsAndRewards(t *testing.T) {
	tests := []struct {
		name     string
		rating   models.Rating
		wantRep  int
		wantIntv int
		wantEF   float64
		wantXP   int
	}{
		{name: "good", rating: models.RatingGood, wantRep: 1, wantIntv: 1, wantEF: 2.5, wantXP: 5},
		{name: "easy", rating: models.RatingEasy, wantRep: 1, wantIntv: 1, wantEF: 2.65, wantXP: 10},
		{name: "again", rating: models.RatingAgain, wantRep: 0, wantIntv: 1, wantEF: 2.3, wantXP: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := openStore(t)
			fs := &fakeSyncer{}
			svc := NewStudyService(st, fs, testOptions()...)
			putCard(t, st, freshCard("c1"))

			res, err := svc.Review(context.Background(), "c1", tt.rating)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRep, res.Card.Repetition)
			assert.Equal(t, tt.wantIntv, res.Card.Interval)
			assert.InDelta(t, tt.wantEF, res.Card.EasinessFactor, 1e-9)
			assert.Equal(t, "2024-05-11T00:00:00.000Z", res.Card.DueDate)
			assert.Equal(t, testStamp, res.Card.UpdatedAt)
			assert.Equal(t, tt.wantXP, res.XPGained)
			assert.Contains(t, achievementIDs(res.NewAchievements), gamification.AchievementFirstStudy)

			logs := studyLogs(t, st)
			require.Len(t, logs, 1)
			assert.Equal(t, models.StudyLogKey{CardID: "c1", Date: testToday, Rating: tt.rating}, logs[0].Key())

			p := profileOf(t, st)
			assert.Equal(t, tt.wantXP, p.XP)
			require.NotNil(t, p.DailyGoals)
			assert.Equal(t, testToday, p.DailyGoals.Date)
			for _, g := range p.DailyGoals.Goals {
				if g.Type == models.GoalStudy {
					assert.Equal(t, 1, g.Progress)
				}
			}
			assert.EqualValues(t, 1, fs.notifies.Load())
		})
	}
}

func TestReview_SameRatingTwiceADayLogsTwice(t *testing.T) {
	st := openStore(t)
	svc := NewStudyService(st, &fakeSyncer{}, testOptions()...)
	putCard(t, st, freshCard("c1"))
	ctx := context.Background()

	_, err := svc.Review(ctx, "c1", models.RatingGood)
	require.NoError(t, err)
	res, err := svc.Review(ctx, "c1", models.RatingGood)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Card.Repetition)
	logs := studyLogs(t, st)
	require.Len(t, logs, 2)
	assert.Equal(t, logs[0].Key(), logs[1].Key())
}

func TestReview_Errors(t *testing.T) {
	st := openStore(t)
	fs := &fakeSyncer{}
	svc := NewStudyService(st, fs, testOptions()...)
	deleted := freshCard("gone")
	deleted.IsDeleted = true
	putCard(t, st, deleted)
	ctx := context.Background()

	_, err := svc.Review(ctx, "gone", models.RatingGood)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Review(ctx, "missing", models.RatingGood)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.Review(ctx, "gone", models.Rating("MEH"))
	require.ErrorIs(t, err, common.ErrInvalidPayload)

	assert.Empty(t, studyLogs(t, st))
	assert.Zero(t, fs.notifies.Load())
}

func TestCompleteQuiz(t *testing.T) {
	st := openStore(t)
	svc := NewStudyService(st, &fakeSyncer{}, testOptions()...)
	ctx := context.Background()

	res, err := svc.CompleteQuiz(ctx, 7, 10)
	require.NoError(t, err)
	assert.NotContains(t, achievementIDs(res.NewAchievements), gamification.AchievementQuizHero)

	res, err = svc.CompleteQuiz(ctx, 10, 10)
	require.NoError(t, err)
	assert.Contains(t, achievementIDs(res.NewAchievements), gamification.AchievementQuizHero)

	p := profileOf(t, st)
	for _, g := range p.DailyGoals.Goals {
		if g.Type == models.GoalQuiz {
			assert.True(t, g.IsComplete)
		}
	}

	_, err = svc.CompleteQuiz(ctx, 3, 0)
	require.ErrorIs(t, err, common.ErrInvalidPayload)
	_, err = svc.CompleteQuiz(ctx, 11, 10)
	require.ErrorIs(t, err, common.ErrInvalidPayload)
}
