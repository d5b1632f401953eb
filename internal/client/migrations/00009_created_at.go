package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/timex"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatedAt, downCreatedAt)
}

// upCreatedAt adds flashcards.created_at and decks.is_deleted. Existing cards
// get a creation time recovered from their id, which starts with a Unix
// millisecond timestamp; ids that do not fall back to the epoch.
func upCreatedAt(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE flashcards ADD COLUMN created_at TEXT NOT NULL DEFAULT ''`,
		`CREATE INDEX IF NOT EXISTS idx_flashcards_created_at ON flashcards(created_at)`,
		`ALTER TABLE decks ADD COLUMN is_deleted INTEGER NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_decks_is_deleted ON decks(is_deleted)`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migration 9: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM flashcards WHERE created_at = ''`)
	if err != nil {
		return fmt.Errorf("migration 9: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("migration 9: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("migration 9: %w", err)
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE flashcards SET created_at = ? WHERE id = ?`, CreatedAtFromID(id), id); err != nil {
			return fmt.Errorf("migration 9: backfill %s: %w", id, err)
		}
	}
	return nil
}

func downCreatedAt(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`DROP INDEX IF EXISTS idx_decks_is_deleted`,
		`ALTER TABLE decks DROP COLUMN is_deleted`,
		`DROP INDEX IF EXISTS idx_flashcards_created_at`,
		`ALTER TABLE flashcards DROP COLUMN created_at`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// CreatedAtFromID derives a creation instant from a card id of the form
// "<unix-millis>-<suffix>".
func CreatedAtFromID(id string) string {
	prefix, _, _ := strings.Cut(id, "-")
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return timex.EpochISO
	}
	return timex.FormatInstant(time.UnixMilli(ms))
}
