package flashcards

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Repository describes storage of Flashcard objects.
type Repository interface {
	// Get returns (nil, nil) when no card has the id.
	Get(ctx context.Context, id string) (*models.Flashcard, error)

	// List returns the cards for which keep reports true; a nil keep returns
	// every card, tombstones included.
	List(ctx context.Context, keep func(models.Flashcard) bool) ([]models.Flashcard, error)

	// ListByDeck returns the non-deleted cards of a deck.
	ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error)

	// ListDue returns non-deleted cards whose due date is not after now.
	ListDue(ctx context.Context, now time.Time) ([]models.Flashcard, error)

	// Put inserts the card or overwrites every column of the stored one.
	Put(ctx context.Context, c models.Flashcard) error
	BulkPut(ctx context.Context, cs []models.Flashcard) error

	// SoftDelete tombstones a card and stamps updatedAt.
	SoftDelete(ctx context.Context, id string, updatedAt string) error

	// SoftDeleteByDeck tombstones every live card of a deck and stamps
	// updatedAt. It returns the number of cards affected.
	SoftDeleteByDeck(ctx context.Context, deckID string, updatedAt string) (int64, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
