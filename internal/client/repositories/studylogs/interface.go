// Package studylogs persists the append-only review history.
package studylogs

import (
	"context"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Repository stores StudyLog facts. Rows are never removed except by Clear;
// a repeated review on the same day with the same rating is its own row.
type Repository interface {
	// Add always appends a new row.
	Add(ctx context.Context, l models.StudyLog) error

	// BulkPut inserts each log whose (cardId, date, rating) key is not stored
	// yet. Snapshots applied from a merge go through here.
	BulkPut(ctx context.Context, ls []models.StudyLog) error

	// List returns logs in insertion order; a nil keep returns all of them.
	List(ctx context.Context, keep func(models.StudyLog) bool) ([]models.StudyLog, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
