package profile

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *SQLiteRepository) Get(ctx context.Context) (*models.UserProfile, error) {
	var (
		p     models.UserProfile
		goals string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, bio, xp, level, last_streak_check,
		       profile_last_updated, daily_goals
		FROM user_profile WHERE id = ?`, models.ProfileID).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Bio, &p.XP, &p.Level, &p.LastStreakCheck,
			&p.ProfileLastUpdated, &goals)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if goals != "" {
		p.DailyGoals = &models.DailyGoals{}
		if err := json.Unmarshal([]byte(goals), p.DailyGoals); err != nil {
			return nil, fmt.Errorf("failed to decode daily goals: %w", err)
		}
		if p.DailyGoals.Goals == nil {
			p.DailyGoals.Goals = []models.DailyGoal{}
		}
	}
	return &p, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, p models.UserProfile) error {
	goals := p.DailyGoals
	if goals == nil {
		goals = models.DefaultDailyGoals()
	}
	if goals.Goals == nil {
		goals = &models.DailyGoals{Date: goals.Date, Goals: []models.DailyGoal{}, AllCompleteAwarded: goals.AllCompleteAwarded}
	}
	encoded, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("failed to encode daily goals: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_profile (id, first_name, last_name, bio, xp, level, last_streak_check,
		                          profile_last_updated, daily_goals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			bio = excluded.bio,
			xp = excluded.xp,
			level = excluded.level,
			last_streak_check = excluded.last_streak_check,
			profile_last_updated = excluded.profile_last_updated,
			daily_goals = excluded.daily_goals
	`, models.ProfileID, p.FirstName, p.LastName, p.Bio, p.XP, p.Level, p.LastStreakCheck,
		p.ProfileLastUpdated, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to put profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_profile`); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
