package accounts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
	srvmodels "github.com/dmitrijs2005/linguacards/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend shares.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := newRepo(t).Get(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		repo := newRepo(t)
		acct := srvmodels.NewAccount("Alice", "hash")
		require.NoError(t, repo.Create(ctx, acct))
		assert.EqualValues(t, 1, acct.Version)

		got, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Username)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.EqualValues(t, 1, got.Version)
		assert.NotNil(t, got.Data.Decks)
		assert.Nil(t, got.Data.UserProfile)
	})

	t.Run("create twice conflicts case-insensitively", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, srvmodels.NewAccount("Alice", "h1")))
		err := repo.Create(ctx, srvmodels.NewAccount("alice", "h2"))
		assert.ErrorIs(t, err, common.ErrConflict)

		got, err := repo.Get(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, "h1", got.PasswordHash)
	})

	t.Run("update bumps version", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, srvmodels.NewAccount("bob", "h")))

		acct, err := repo.Get(ctx, "bob")
		require.NoError(t, err)
		acct.Data.Decks = append(acct.Data.Decks, models.Deck{ID: "d1", Name: "Verbs"})
		require.NoError(t, repo.Update(ctx, acct))
		assert.EqualValues(t, 2, acct.Version)

		got, err := repo.Get(ctx, "bob")
		require.NoError(t, err)
		assert.EqualValues(t, 2, got.Version)
		require.Len(t, got.Data.Decks, 1)
		assert.Equal(t, "Verbs", got.Data.Decks[0].Name)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, srvmodels.NewAccount("carol", "h")))

		first, err := repo.Get(ctx, "carol")
		require.NoError(t, err)
		second, err := repo.Get(ctx, "carol")
		require.NoError(t, err)

		require.NoError(t, repo.Update(ctx, first))
		err = repo.Update(ctx, second)
		assert.ErrorIs(t, err, common.ErrVersionConflict)
		assert.EqualValues(t, 1, second.Version)
	})
}

func TestMemoryRepository_Contract(t *testing.T) {
	runContract(t, func(t *testing.T) Repository {
		repo, err := NewMemoryRepository("")
		require.NoError(t, err)
		return repo
	})
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo, err := NewMemoryRepository("")
	require.NoError(t, err)

	acct := srvmodels.NewAccount("nobody", "h")
	acct.Version = 1
	assert.ErrorIs(t, repo.Update(context.Background(), acct), common.ErrNotFound)
}

func TestMemoryRepository_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/data/accounts.json"

	repo, err := NewMemoryRepository(path)
	require.NoError(t, err)
	acct := srvmodels.NewAccount("dora", "h")
	require.NoError(t, repo.Create(ctx, acct))
	acct.Data.Decks = []models.Deck{{ID: "d1", Name: "Nouns"}}
	require.NoError(t, repo.Update(ctx, acct))

	reopened, err := NewMemoryRepository(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "Dora")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Version)
	assert.Equal(t, "Nouns", got.Data.Decks[0].Name)
}

func TestMemoryRepository_FailedWriteIsNotVisible(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.json")

	repo, err := NewMemoryRepository(path)
	require.NoError(t, err)
	acct := srvmodels.NewAccount("erin", "h")
	require.NoError(t, repo.Create(ctx, acct))

	// a non-empty directory in place of the file makes every rename fail
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	acct.Data.Decks = []models.Deck{{ID: "d1", Name: "Verbs"}}
	assert.ErrorIs(t, repo.Update(ctx, acct), common.ErrStorageUnavailable)
	assert.EqualValues(t, 1, acct.Version)

	got, err := repo.Get(ctx, "erin")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Version)
	assert.Empty(t, got.Data.Decks)

	assert.ErrorIs(t, repo.Create(ctx, srvmodels.NewAccount("finn", "h")), common.ErrStorageUnavailable)
	_, err = repo.Get(ctx, "finn")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNewMemoryRepository_BadFile(t *testing.T) {
	path := t.TempDir() + "/accounts.json"
	require.NoError(t, writeFile(path, "not json"))

	_, err := NewMemoryRepository(path)
	assert.ErrorIs(t, err, common.ErrInvalidPayload)
}
