package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/srs"
	"github.com/google/uuid"
)

// newCardXP is awarded for every card the user creates.
const newCardXP = 2

// CardInput is the user-editable part of a flashcard. An empty ID creates a
// new card; DeckName selects the deck by case-insensitive name and creates it
// when missing.
type CardInput struct {
	ID                    string
	DeckName              string `validate:"required"`
	Front                 string `validate:"required"`
	Back                  string `validate:"required"`
	Pronunciation         string
	PartOfSpeech          string
	Definition            []string
	ExampleSentenceTarget []string
	Notes                 string
	AudioSrc              string
}

func (in CardInput) normalized() CardInput {
	in.ID = strings.TrimSpace(in.ID)
	in.DeckName = strings.TrimSpace(in.DeckName)
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	return in
}

func (in CardInput) check() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidPayload, err)
	}
	return nil
}

func (in CardInput) applyTo(c *models.Flashcard) {
	c.Front = in.Front
	c.Back = in.Back
	c.Pronunciation = in.Pronunciation
	c.PartOfSpeech = in.PartOfSpeech
	c.Definition = in.Definition
	c.ExampleSentenceTarget = in.ExampleSentenceTarget
	c.Notes = in.Notes
	c.AudioSrc = in.AudioSrc
}

// newCard builds a card that has never been reviewed and is due right away.
func newCard(in CardInput, deckID, now string) models.Flashcard {
	c := models.Flashcard{
		ID:             uuid.NewString(),
		DeckID:         deckID,
		Repetition:     0,
		EasinessFactor: srs.DefaultEasiness,
		Interval:       0,
		CreatedAt:      now,
		UpdatedAt:      now,
		DueDate:        now,
	}
	in.applyTo(&c)
	return c
}

// LibraryService manages decks and cards.
//
// Deletions are tombstones: rows stay with IsDeleted set so the deletion
// reaches every device through sync. Listing methods hide them.
type LibraryService interface {
	CreateDeck(ctx context.Context, name string) (models.Deck, error)
	RenameDeck(ctx context.Context, id, name string) error
	// DeleteDeck tombstones the deck and every card in it in one transaction.
	DeleteDeck(ctx context.Context, id string) error

	SaveCard(ctx context.Context, in CardInput) (models.Flashcard, Reward, error)
	DeleteCard(ctx context.Context, id string) error

	Decks(ctx context.Context) ([]models.Deck, error)
	// Cards lists the live cards of a deck, or of every deck when deckID is "".
	Cards(ctx context.Context, deckID string) ([]models.Flashcard, error)
	DueCards(ctx context.Context) ([]models.Flashcard, error)
}

type libraryService struct {
	store Store
	sync  Syncer
	cfg   config
}

func NewLibraryService(st Store, sync Syncer, opts ...Option) LibraryService {
	return &libraryService{store: st, sync: sync, cfg: newConfig(opts)}
}

// findOrCreateDeck returns the live deck called name, creating it if needed.
func findOrCreateDeck(ctx context.Context, r store.Repositories, name string) (models.Deck, error) {
	d, err := r.Decks.FindByName(ctx, name)
	if err != nil {
		return models.Deck{}, err
	}
	if d != nil {
		return *d, nil
	}
	deck := models.Deck{ID: uuid.NewString(), Name: name}
	if err := r.Decks.Put(ctx, deck); err != nil {
		return models.Deck{}, err
	}
	return deck, nil
}

func (s *libraryService) CreateDeck(ctx context.Context, name string) (models.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Deck{}, fmt.Errorf("deck name is empty: %w", common.ErrInvalidPayload)
	}

	var deck models.Deck
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		existing, err := r.Decks.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("deck %q: %w", name, common.ErrConflict)
		}
		deck = models.Deck{ID: uuid.NewString(), Name: name}
		return r.Decks.Put(ctx, deck)
	})
	if err != nil {
		return models.Deck{}, err
	}

	s.sync.NotifyChange()
	return deck, nil
}

func (s *libraryService) RenameDeck(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("deck name is empty: %w", common.ErrInvalidPayload)
	}

	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		d, err := liveDeckByID(ctx, r, id)
		if err != nil {
			return err
		}
		other, err := r.Decks.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != d.ID {
			return fmt.Errorf("deck %q: %w", name, common.ErrConflict)
		}
		d.Name = name
		return r.Decks.Put(ctx, d)
	})
	if err != nil {
		return err
	}

	s.sync.NotifyChange()
	return nil
}

func (s *libraryService) DeleteDeck(ctx context.Context, id string) error {
	now := s.cfg.stamp()
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		if _, err := liveDeckByID(ctx, r, id); err != nil {
			return err
		}
		if err := r.Decks.SoftDelete(ctx, id); err != nil {
			return err
		}
		_, err := r.Flashcards.SoftDeleteByDeck(ctx, id, now)
		return err
	})
	if err != nil {
		return err
	}

	s.sync.NotifyChange()
	return nil
}

func (s *libraryService) SaveCard(ctx context.Context, in CardInput) (models.Flashcard, Reward, error) {
	in = in.normalized()
	if err := in.check(); err != nil {
		return models.Flashcard{}, Reward{}, err
	}

	now := s.cfg.stamp()
	var (
		card   models.Flashcard
		reward Reward
	)
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		deck, err := findOrCreateDeck(ctx, r, in.DeckName)
		if err != nil {
			return err
		}

		var a activity
		if in.ID == "" {
			card = newCard(in, deck.ID, now)
			a.xp = newCardXP
		} else {
			existing, err := r.Flashcards.Get(ctx, in.ID)
			if err != nil {
				return err
			}
			if existing == nil || existing.IsDeleted {
				return fmt.Errorf("card %s: %w", in.ID, common.ErrNotFound)
			}
			card = *existing
			in.applyTo(&card)
			card.DeckID = deck.ID
			card.UpdatedAt = now
		}

		if err := r.Flashcards.Put(ctx, card); err != nil {
			return err
		}
		reward, err = s.cfg.record(ctx, r, a)
		return err
	})
	if err != nil {
		return models.Flashcard{}, Reward{}, err
	}

	s.sync.NotifyChange()
	return card, reward, nil
}

func (s *libraryService) DeleteCard(ctx context.Context, id string) error {
	now := s.cfg.stamp()
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		c, err := r.Flashcards.Get(ctx, id)
		if err != nil {
			return err
		}
		if c == nil || c.IsDeleted {
			return fmt.Errorf("card %s: %w", id, common.ErrNotFound)
		}
		return r.Flashcards.SoftDelete(ctx, id, now)
	})
	if err != nil {
		return err
	}

	s.sync.NotifyChange()
	return nil
}

func (s *libraryService) Decks(ctx context.Context) ([]models.Deck, error) {
	var out []models.Deck
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		out, err = r.Decks.List(ctx, liveDeck)
		return err
	})
	return out, err
}

func (s *libraryService) Cards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	var out []models.Flashcard
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		if deckID == "" {
			out, err = r.Flashcards.List(ctx, liveCard)
			return err
		}
		out, err = r.Flashcards.ListByDeck(ctx, deckID)
		return err
	})
	return out, err
}

func (s *libraryService) DueCards(ctx context.Context) ([]models.Flashcard, error) {
	var out []models.Flashcard
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		out, err = r.Flashcards.ListDue(ctx, s.cfg.now())
		return err
	})
	return out, err
}

func liveDeckByID(ctx context.Context, r store.Repositories, id string) (models.Deck, error) {
	d, err := r.Decks.Get(ctx, id)
	if err != nil {
		return models.Deck{}, err
	}
	if d == nil || d.IsDeleted {
		return models.Deck{}, fmt.Errorf("deck %s: %w", id, common.ErrNotFound)
	}
	return *d, nil
}
