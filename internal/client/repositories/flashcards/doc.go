// Package flashcards persists flashcards in the local store.
//
// Cards are never removed individually; deletion is a tombstone
// (is_deleted = 1) so that it can be synchronized to other devices. The list
// fields definition and exampleSentenceTarget are stored as JSON arrays.
//
//	repo := flashcards.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, card)
//	due, _ := repo.ListDue(ctx, time.Now())
package flashcards
