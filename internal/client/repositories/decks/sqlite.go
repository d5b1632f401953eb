package decks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/dbx"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	d := &models.Deck{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, is_deleted FROM decks WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck[%s]: %w", id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) FindByName(ctx context.Context, name string) (*models.Deck, error) {
	d := &models.Deck{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, is_deleted FROM decks
		WHERE is_deleted = 0 AND lower(name) = lower(?)
		ORDER BY id LIMIT 1`, name).
		Scan(&d.ID, &d.Name, &d.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find deck by name %q: %w", name, err)
	}
	return d, nil
}

func (r *SQLiteRepository) List(ctx context.Context, keep func(models.Deck) bool) ([]models.Deck, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, is_deleted FROM decks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select decks: %w", err)
	}
	defer rows.Close()

	result := []models.Deck{}
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.IsDeleted); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		if keep == nil || keep(d) {
			result = append(result, d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, d models.Deck) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO decks (id, name, is_deleted) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, is_deleted = excluded.is_deleted
	`, d.ID, d.Name, d.IsDeleted)
	if err != nil {
		return fmt.Errorf("failed to upsert deck[%s]: %w", d.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) BulkPut(ctx context.Context, ds []models.Deck) error {
	for _, d := range ds {
		if err := r.Put(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE decks SET is_deleted = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM decks`); err != nil {
		return fmt.Errorf("failed to clear decks: %w", err)
	}
	return nil
}
