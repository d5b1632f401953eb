package studylogs

import (
	"context"
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

func (r *SQLiteRepository) Add(ctx context.Context, l models.StudyLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO study_history (card_id, date, rating) VALUES (?, ?, ?)
	`, l.CardID, l.Date, string(l.Rating))
	if err != nil {
		return fmt.Errorf("failed to add study log for card[%s]: %w", l.CardID, err)
	}
	return nil
}

func (r *SQLiteRepository) BulkPut(ctx context.Context, ls []models.StudyLog) error {
	for _, l := range ls {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO study_history (card_id, date, rating)
			SELECT ?, ?, ?
			WHERE NOT EXISTS (
				SELECT 1 FROM study_history WHERE card_id = ? AND date = ? AND rating = ?
			)
		`, l.CardID, l.Date, string(l.Rating), l.CardID, l.Date, string(l.Rating))
		if err != nil {
			return fmt.Errorf("failed to put study log for card[%s]: %w", l.CardID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, keep func(models.StudyLog) bool) ([]models.StudyLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, card_id, date, rating FROM study_history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select study logs: %w", err)
	}
	defer rows.Close()

	result := []models.StudyLog{}
	for rows.Next() {
		var l models.StudyLog
		if err := rows.Scan(&l.ID, &l.CardID, &l.Date, &l.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan study log row: %w", err)
		}
		if keep == nil || keep(l) {
			result = append(result, l)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate study log rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM study_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count study logs: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM study_history`); err != nil {
		return fmt.Errorf("failed to clear study logs: %w", err)
	}
	return nil
}
