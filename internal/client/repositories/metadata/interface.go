// Package metadata stores device-local session state that is never
// synchronized: the account the local store belongs to and the instant of
// the last successful sync.
package metadata

import (
	"context"
	"time"
)

// Repository reads and writes the session state. Absent values read as ""
// and the zero time.
type Repository interface {
	Owner(ctx context.Context) (string, error)
	SetOwner(ctx context.Context, username string) error
	LastSyncedAt(ctx context.Context) (time.Time, error)
	SetLastSyncedAt(ctx context.Context, t time.Time) error
	Clear(ctx context.Context) error
}
