package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/models"
	srvmodels "github.com/dmitrijs2005/linguacards/internal/server/models"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

var testNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func newMemoryRepo(t *testing.T) *accounts.MemoryRepository {
	t.Helper()
	repo, err := accounts.NewMemoryRepository("")
	require.NoError(t, err)
	return repo
}

func seedAccount(t *testing.T, repo accounts.Repository, username string, data models.SyncData) {
	t.Helper()
	acct := srvmodels.NewAccount(username, "hash")
	require.NoError(t, repo.Create(context.Background(), acct))
	acct.Data = data
	require.NoError(t, repo.Update(context.Background(), acct))
}

func newSyncService(repo accounts.Repository, opts ...SyncOption) *SyncService {
	opts = append([]SyncOption{
		WithRetryInterval(time.Millisecond),
		WithSyncClock(func() time.Time { return testNow }),
	}, opts...)
	return NewSyncService(repo, logging.NewNopLogger(), opts...)
}

// racingRepo lets another writer win the first `races` conditional updates.
type racingRepo struct {
	accounts.Repository
	races   int
	updates atomic.Int32
}

func (r *racingRepo) Update(ctx context.Context, acct *srvmodels.Account) error {
	n := int(r.updates.Add(1))
	if n <= r.races {
		other, err := r.Repository.Get(ctx, acct.Username)
		if err != nil {
			return err
		}
		other.Data.Decks = append(other.Data.Decks, models.Deck{ID: fmt.Sprintf("other-%d", n), Name: "Other"})
		if err := r.Repository.Update(ctx, other); err != nil {
			return err
		}
	}
	return r.Repository.Update(ctx, acct)
}

// failingRepo fails every call with err.
type failingRepo struct{ err error }

func (r failingRepo) Get(context.Context, string) (*srvmodels.Account, error) { return nil, r.err }
func (r failingRepo) Create(context.Context, *srvmodels.Account) error        { return r.err }
func (r failingRepo) Update(context.Context, *srvmodels.Account) error        { return r.err }

type archived struct {
	username string
	day      time.Time
	data     models.SyncData
}

type fakeArchiver struct {
	mu    sync.Mutex
	calls []archived
	err   error
}

func (a *fakeArchiver) Archive(_ context.Context, username string, day time.Time, data models.SyncData) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, archived{username: username, day: day, data: data})
	return a.err
}

var errBoom = errors.New("boom")
