// Package store is the versioned local store of the device: one SQLite file
// holding every synchronized collection plus device-local metadata.
//
// The schema is brought up to date on Open. Repositories are available
// directly for single statements and through InTx for multi-row changes that
// must be atomic.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/client/migrations"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/achievements"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/decks"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/flashcards"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/profile"
	"github.com/dmitrijs2005/linguacards/internal/client/repositories/studylogs"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/dbx"
	"github.com/dmitrijs2005/linguacards/internal/models"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Repositories groups the per-collection repositories bound to one DBTX.
type Repositories struct {
	Decks        decks.Repository
	Flashcards   flashcards.Repository
	StudyLogs    studylogs.Repository
	Profile      profile.Repository
	Achievements achievements.Repository
	Metadata     metadata.Repository
}

func newRepositories(db dbx.DBTX) Repositories {
	return Repositories{
		Decks:        decks.NewSQLiteRepository(db),
		Flashcards:   flashcards.NewSQLiteRepository(db),
		StudyLogs:    studylogs.NewSQLiteRepository(db),
		Profile:      profile.NewSQLiteRepository(db),
		Achievements: achievements.NewSQLiteRepository(db),
		Metadata:     metadata.NewSQLiteRepository(db),
	}
}

type Store struct {
	db *sql.DB
	Repositories
}

type options struct {
	version int64
}

type Option func(*options)

// WithTargetVersion stops migrating at version. It is used to build stores
// with an older schema.
func WithTargetVersion(v int64) Option {
	return func(o *options) { o.version = v }
}

// Open opens or creates the database at dsn and applies pending migrations.
// Every failure wraps common.ErrStorageUnavailable.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	o := options{version: math.MaxInt64}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open(driverName, withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w: %w", common.ErrStorageUnavailable, err)
	}
	// One connection: SQLite serialises writers anyway and ":memory:" is
	// per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open local store: %w: %w", common.ErrStorageUnavailable, err)
	}

	s := &Store{db: db, Repositories: newRepositories(db)}
	if err := s.migrateTo(ctx, o.version); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func withPragmas(dsn string) string {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "_pragma") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate applies every pending migration.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrateTo(ctx, math.MaxInt64)
}

func (s *Store) migrateTo(ctx context.Context, version int64) error {
	if err := migrations.UpTo(ctx, s.db, version); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// Version returns the applied schema version.
func (s *Store) Version(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, s.db)
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn with repositories bound to one transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Snapshot reads every synchronized collection in one transaction.
func (s *Store) Snapshot(ctx context.Context) (models.SyncData, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (models.SyncData, error) {
		r := newRepositories(tx)
		var (
			d   models.SyncData
			err error
		)
		if d.Decks, err = r.Decks.List(ctx, nil); err != nil {
			return d, err
		}
		if d.Cards, err = r.Flashcards.List(ctx, nil); err != nil {
			return d, err
		}
		if d.StudyHistory, err = r.StudyLogs.List(ctx, nil); err != nil {
			return d, err
		}
		if d.UserProfile, err = r.Profile.Get(ctx); err != nil {
			return d, err
		}
		if d.UserAchievements, err = r.Achievements.List(ctx, nil); err != nil {
			return d, err
		}
		return d, nil
	})
}

// ApplySnapshot upserts every entity of d in one transaction. Rows missing
// from d are left alone.
func (s *Store) ApplySnapshot(ctx context.Context, d models.SyncData) error {
	return s.InTx(ctx, func(ctx context.Context, r Repositories) error {
		return apply(ctx, r, d)
	})
}

func apply(ctx context.Context, r Repositories, d models.SyncData) error {
	if err := r.Decks.BulkPut(ctx, d.Decks); err != nil {
		return err
	}
	if err := r.Flashcards.BulkPut(ctx, d.Cards); err != nil {
		return err
	}
	if err := r.StudyLogs.BulkPut(ctx, d.StudyHistory); err != nil {
		return err
	}
	if d.UserProfile != nil {
		if err := r.Profile.Put(ctx, *d.UserProfile); err != nil {
			return err
		}
	}
	return r.Achievements.BulkPut(ctx, d.UserAchievements)
}

// Wipe deletes all local data, metadata included, and re-seeds the default
// deck and profile.
func (s *Store) Wipe(ctx context.Context) error {
	return s.InTx(ctx, func(ctx context.Context, r Repositories) error {
		return wipe(ctx, r)
	})
}

// Replace wipes the store and applies d in one transaction.
func (s *Store) Replace(ctx context.Context, d models.SyncData) error {
	return s.InTx(ctx, func(ctx context.Context, r Repositories) error {
		if err := wipe(ctx, r); err != nil {
			return err
		}
		return apply(ctx, r, d)
	})
}

func wipe(ctx context.Context, r Repositories) error {
	clears := []func(context.Context) error{
		r.Flashcards.Clear,
		r.Decks.Clear,
		r.StudyLogs.Clear,
		r.Profile.Clear,
		r.Achievements.Clear,
		r.Metadata.Clear,
	}
	for _, clearFn := range clears {
		if err := clearFn(ctx); err != nil {
			return err
		}
	}
	if err := r.Decks.Put(ctx, models.DefaultDeck()); err != nil {
		return err
	}
	return r.Profile.Put(ctx, models.DefaultProfile())
}

// Owner returns the account the store currently belongs to, or "".
func (s *Store) Owner(ctx context.Context) (string, error) {
	return s.Metadata.Owner(ctx)
}

func (s *Store) SetOwner(ctx context.Context, username string) error {
	return s.Metadata.SetOwner(ctx, username)
}

// LastSyncedAt returns the instant of the last successful sync, or the zero
// time if there was none.
func (s *Store) LastSyncedAt(ctx context.Context) (time.Time, error) {
	return s.Metadata.LastSyncedAt(ctx)
}

func (s *Store) SetLastSyncedAt(ctx context.Context, t time.Time) error {
	return s.Metadata.SetLastSyncedAt(ctx, t)
}
