package client

import (
	"context"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Client is the device's view of the sync server.
type Client interface {
	Ping(ctx context.Context) error
	// Register creates an account and returns a session token.
	Register(ctx context.Context, username, password string) (string, error)
	// Login checks credentials and returns a session token.
	Login(ctx context.Context, username, password string) (string, error)
	// Load returns the stored snapshot, or nil when the account has none yet.
	Load(ctx context.Context, username string) (*models.SyncData, error)
	// Merge sends the local snapshot and returns the merged result.
	Merge(ctx context.Context, username string, data models.SyncData) (*models.SyncData, error)
	SetToken(token string)
}
