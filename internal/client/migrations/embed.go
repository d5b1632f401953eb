// Package migrations holds the local store schema history. Versions 1 to 10
// follow the schema history of the browser client so that an exported
// browser database can be replayed; later versions are device-only.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"math"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

const dialect = "sqlite3"

// ErrSchemaTooNew is returned when the database was migrated by a newer
// build than this one. Downgrades are not supported.
var ErrSchemaTooNew = errors.New("local store schema is newer than this build supports")

// upTo is a seam for tests.
var upTo = func(ctx context.Context, db *sql.DB, dir string, version int64) error {
	return goose.UpToContext(ctx, db, dir, version)
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	return UpTo(ctx, db, math.MaxInt64)
}

// UpTo applies pending migrations up to and including version.
func UpTo(ctx context.Context, db *sql.DB, version int64) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := upTo(ctx, db, ".", version); err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}
	return checkCeiling(ctx, db)
}

// Latest reports the highest schema version known to this build.
func Latest() (int64, error) {
	goose.SetBaseFS(Migrations)
	ms, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to collect migrations: %w", err)
	}
	last, err := ms.Last()
	if err != nil {
		return 0, fmt.Errorf("failed to collect migrations: %w", err)
	}
	return last.Version, nil
}

// checkCeiling fails when goose found nothing to do because the database is
// ahead of the embedded migrations.
func checkCeiling(ctx context.Context, db *sql.DB) error {
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := Latest()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("%w: database at %d, build at %d", ErrSchemaTooNew, current, latest)
	}
	return nil
}

// Version reports the current schema version.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
