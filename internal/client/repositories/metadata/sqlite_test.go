package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestOwner_EmptyStore(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	owner, err := r.Owner(context.Background())
	require.NoError(t, err)
	assert.Empty(t, owner)
}

func TestOwner_SetOverwriteAndForget(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetOwner(ctx, "alice"))
	require.NoError(t, r.SetOwner(ctx, "bob"))

	owner, err := r.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)

	require.NoError(t, r.SetOwner(ctx, ""))
	owner, err = r.Owner(ctx)
	require.NoError(t, err)
	assert.Empty(t, owner)
}

func TestLastSyncedAt_RoundTripsMilliseconds(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	zero, err := r.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	at := time.Date(2024, 5, 1, 10, 20, 30, 123456789, time.FixedZone("EET", 3*3600))
	require.NoError(t, r.SetLastSyncedAt(ctx, at))

	got, err := r.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(at.Truncate(time.Millisecond)), "got %v", got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestClear_ForgetsEverything(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetOwner(ctx, "alice"))
	require.NoError(t, r.SetLastSyncedAt(ctx, time.Now()))
	require.NoError(t, r.Clear(ctx))

	owner, err := r.Owner(ctx)
	require.NoError(t, err)
	assert.Empty(t, owner)

	at, err := r.LastSyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Owner(ctx)
	require.ErrorContains(t, err, "read username")

	err = r.SetOwner(ctx, "alice")
	require.ErrorContains(t, err, "write username")

	err = r.SetOwner(ctx, "")
	require.ErrorContains(t, err, "delete username")

	_, err = r.LastSyncedAt(ctx)
	require.ErrorContains(t, err, "read lastSyncedAt")

	err = r.SetLastSyncedAt(ctx, time.Now())
	require.ErrorContains(t, err, "write lastSyncedAt")

	err = r.Clear(ctx)
	require.ErrorContains(t, err, "clear session state")
}
