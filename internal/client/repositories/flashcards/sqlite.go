package flashcards

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/dbx"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

const columns = `id, deck_id, front, back, pronunciation, part_of_speech, definition,
	example_sentence_target, notes, audio_src, is_deleted, created_at, updated_at,
	repetition, easiness_factor, interval, due_date`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (models.Flashcard, error) {
	var (
		c                   models.Flashcard
		definition, example sql.NullString
	)
	err := s.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Pronunciation, &c.PartOfSpeech,
		&definition, &example, &c.Notes, &c.AudioSrc, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
		&c.Repetition, &c.EasinessFactor, &c.Interval, &c.DueDate)
	if err != nil {
		return c, err
	}
	if c.Definition, err = decodeList(definition); err != nil {
		return c, fmt.Errorf("card %s definition: %w", c.ID, err)
	}
	if c.ExampleSentenceTarget, err = decodeList(example); err != nil {
		return c, fmt.Errorf("card %s examples: %w", c.ID, err)
	}
	return c, nil
}

func decodeList(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeList(v []string) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM flashcards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card[%s]: %w", id, err)
	}
	return &c, nil
}

func (r *SQLiteRepository) query(ctx context.Context, what string, q string, args ...any) ([]models.Flashcard, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", what, err)
	}
	defer rows.Close()

	result := []models.Flashcard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) List(ctx context.Context, keep func(models.Flashcard) bool) ([]models.Flashcard, error) {
	all, err := r.query(ctx, "cards", `SELECT `+columns+` FROM flashcards ORDER BY id`)
	if err != nil || keep == nil {
		return all, err
	}
	kept := all[:0]
	for _, c := range all {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func (r *SQLiteRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	return r.query(ctx, "deck cards",
		`SELECT `+columns+` FROM flashcards WHERE deck_id = ? AND is_deleted = 0 ORDER BY created_at, id`, deckID)
}

// ListDue compares due dates as instants, so the stored text format does not
// have to be uniform.
func (r *SQLiteRepository) ListDue(ctx context.Context, now time.Time) ([]models.Flashcard, error) {
	live, err := r.query(ctx, "due cards",
		`SELECT `+columns+` FROM flashcards WHERE is_deleted = 0 ORDER BY due_date, id`)
	if err != nil {
		return nil, err
	}
	due := live[:0]
	for _, c := range live {
		if !timex.ParseInstant(c.DueDate).After(now) {
			due = append(due, c)
		}
	}
	return due, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, c models.Flashcard) error {
	definition, err := encodeList(c.Definition)
	if err != nil {
		return fmt.Errorf("failed to encode card[%s] definition: %w", c.ID, err)
	}
	example, err := encodeList(c.ExampleSentenceTarget)
	if err != nil {
		return fmt.Errorf("failed to encode card[%s] examples: %w", c.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO flashcards (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			deck_id = excluded.deck_id,
			front = excluded.front,
			back = excluded.back,
			pronunciation = excluded.pronunciation,
			part_of_speech = excluded.part_of_speech,
			definition = excluded.definition,
			example_sentence_target = excluded.example_sentence_target,
			notes = excluded.notes,
			audio_src = excluded.audio_src,
			is_deleted = excluded.is_deleted,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			repetition = excluded.repetition,
			easiness_factor = excluded.easiness_factor,
			interval = excluded.interval,
			due_date = excluded.due_date
	`, c.ID, c.DeckID, c.Front, c.Back, c.Pronunciation, c.PartOfSpeech, definition,
		example, c.Notes, c.AudioSrc, c.IsDeleted, c.CreatedAt, c.UpdatedAt,
		c.Repetition, c.EasinessFactor, c.Interval, c.DueDate)
	if err != nil {
		return fmt.Errorf("failed to upsert card[%s]: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) BulkPut(ctx context.Context, cs []models.Flashcard) error {
	for _, c := range cs {
		if err := r.Put(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string, updatedAt string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE flashcards SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0`, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to delete card[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteByDeck(ctx context.Context, deckID string, updatedAt string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flashcards SET is_deleted = 1, updated_at = ? WHERE deck_id = ? AND is_deleted = 0`,
		updatedAt, deckID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards of deck[%s]: %w", deckID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flashcards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	return nil
}
