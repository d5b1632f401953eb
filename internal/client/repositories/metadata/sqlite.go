package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/dbx"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

const (
	keyOwner        = "username"
	keyLastSyncedAt = "lastSyncedAt"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Owner(ctx context.Context) (string, error) {
	return r.get(ctx, keyOwner)
}

// SetOwner records username as the owner; "" forgets the owner.
func (r *SQLiteRepository) SetOwner(ctx context.Context, username string) error {
	if username == "" {
		return r.delete(ctx, keyOwner)
	}
	return r.set(ctx, keyOwner, username)
}

func (r *SQLiteRepository) LastSyncedAt(ctx context.Context) (time.Time, error) {
	v, err := r.get(ctx, keyLastSyncedAt)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return timex.ParseInstant(v), nil
}

func (r *SQLiteRepository) SetLastSyncedAt(ctx context.Context, t time.Time) error {
	return r.set(ctx, keyLastSyncedAt, timex.FormatInstant(t))
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(value), nil
}

func (r *SQLiteRepository) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, []byte(value))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
