package achievements

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

func (r *SQLiteRepository) List(ctx context.Context, keep func(models.UserAchievement) bool) ([]models.UserAchievement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT achievement_id, date_earned FROM user_achievements ORDER BY achievement_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select achievements: %w", err)
	}
	defer rows.Close()

	result := []models.UserAchievement{}
	for rows.Next() {
		var a models.UserAchievement
		if err := rows.Scan(&a.AchievementID, &a.DateEarned); err != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", err)
		}
		if keep == nil || keep(a) {
			result = append(result, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievement rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, a models.UserAchievement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_achievements (achievement_id, date_earned) VALUES (?, ?)
		ON CONFLICT(achievement_id) DO UPDATE SET date_earned = excluded.date_earned
	`, a.AchievementID, a.DateEarned)
	if err != nil {
		return fmt.Errorf("failed to upsert achievement[%s]: %w", a.AchievementID, err)
	}
	return nil
}

func (r *SQLiteRepository) BulkPut(ctx context.Context, as []models.UserAchievement) error {
	for _, a := range as {
		if err := r.Put(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_achievements`); err != nil {
		return fmt.Errorf("failed to clear achievements: %w", err)
	}
	return nil
}
