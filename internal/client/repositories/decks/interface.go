// Package decks persists decks in the local store.
package decks

import (
	"context"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Repository stores decks, including soft-deleted ones.
type Repository interface {
	// Get returns (nil, nil) when no deck has the id.
	Get(ctx context.Context, id string) (*models.Deck, error)

	// FindByName looks up a non-deleted deck by name, ignoring case.
	FindByName(ctx context.Context, name string) (*models.Deck, error)

	// List returns the decks for which keep reports true; a nil keep returns
	// every deck, tombstones included.
	List(ctx context.Context, keep func(models.Deck) bool) ([]models.Deck, error)

	// Put inserts d or overwrites every column of the stored deck.
	Put(ctx context.Context, d models.Deck) error
	BulkPut(ctx context.Context, ds []models.Deck) error

	// SoftDelete tombstones a deck. Deleting an absent deck is not an error.
	SoftDelete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
