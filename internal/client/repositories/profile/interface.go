// Package profile persists the singleton user profile.
package profile

import (
	"context"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

type Repository interface {
	// Get returns (nil, nil) when the profile row is absent.
	Get(ctx context.Context) (*models.UserProfile, error)

	// Put writes p as the profile. The id is always forced to models.ProfileID.
	Put(ctx context.Context, p models.UserProfile) error

	Clear(ctx context.Context) error
}
