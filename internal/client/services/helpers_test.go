package services

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

const (
	testToday     = "2024-05-10"
	testYesterday = "2024-05-09"
	testStamp     = "2024-05-10T09:00:00.000Z"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testOptions() []Option {
	return []Option{
		WithClock(func() time.Time { return testNow }),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
}

// fakeSyncer records what the services asked of the orchestrator.
type fakeSyncer struct {
	LoadErr error

	loads    []string
	logouts  atomic.Int32
	notifies atomic.Int32
	suspends atomic.Int32
	resumes  atomic.Int32
}

func (f *fakeSyncer) Load(_ context.Context, username string) error {
	f.loads = append(f.loads, username)
	return f.LoadErr
}

func (f *fakeSyncer) Logout()       { f.logouts.Add(1) }
func (f *fakeSyncer) NotifyChange() { f.notifies.Add(1) }
func (f *fakeSyncer) Suspend()      { f.suspends.Add(1) }
func (f *fakeSyncer) Resume()       { f.resumes.Add(1) }

func putCard(t *testing.T, st *store.Store, c models.Flashcard) {
	t.Helper()
	require.NoError(t, st.InTx(context.Background(), func(ctx context.Context, r store.Repositories) error {
		return r.Flashcards.Put(ctx, c)
	}))
}

func profileOf(t *testing.T, st *store.Store) models.UserProfile {
	t.Helper()
	var p models.UserProfile
	require.NoError(t, st.InTx(context.Background(), func(ctx context.Context, r store.Repositories) (err error) {
		p, err = loadProfile(ctx, r)
		return err
	}))
	return p
}

func achievementIDs(as []models.UserAchievement) []string {
	ids := make([]string, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.AchievementID)
	}
	return ids
}
