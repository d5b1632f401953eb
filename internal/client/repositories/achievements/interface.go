// Package achievements persists the achievements the user has earned.
package achievements

import (
	"context"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

type Repository interface {
	// List returns earned achievements ordered by id; a nil keep returns all.
	List(ctx context.Context, keep func(models.UserAchievement) bool) ([]models.UserAchievement, error)

	// Put stores a, replacing the date of an already earned achievement.
	Put(ctx context.Context, a models.UserAchievement) error
	BulkPut(ctx context.Context, as []models.UserAchievement) error
	Clear(ctx context.Context) error
}
