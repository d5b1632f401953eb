// Package merge reconciles two snapshots of a LinguaCards account into one.
//
// Merge is a pure function: it never reads the clock, never performs I/O and
// never fails. Every "latest wins" decision uses only timestamps carried in the
// data, with absent or unparseable values treated as older than any real one.
// The same function runs on the sync server (device snapshot against the
// stored document) and on the device (server result against a fresh local
// snapshot, so that writes made while a request was in flight survive).
//
// Per collection:
//
//   - Decks: union by id. On both sides the remote record is the base and
//     the local one overwrites it; isDeleted is the OR of both.
//   - Flashcards: union by id. The side with the equal-or-later updatedAt is
//     the base (local on a tie); isDeleted is the OR of both.
//   - Study history: set union keyed by (cardId, date, rating).
//   - Profile: a one-sided profile wins outright. Otherwise the later
//     profileLastUpdated supplies names, bio and the timestamp; xp and level
//     take the maximum; lastStreakCheck takes the later day; daily goals merge
//     as described on mergeDailyGoals.
//   - Achievements: union by achievementId; an earned date never moves
//     forward, so the earliest dateEarned wins.
//
// Output collections are sorted by identity so that Merge(x, x) equals
// Normalize(x) for any snapshot x.
package merge
