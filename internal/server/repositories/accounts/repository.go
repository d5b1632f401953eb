// Package accounts stores one account document per user: the password hash,
// the merged sync snapshot and an optimistic-concurrency version.
//
// Every backend honours the same contract:
//
//   - Get returns common.ErrNotFound when the key is absent.
//   - Create stores a new document at version 1 and returns common.ErrConflict
//     when the key already exists.
//   - Update writes only if the stored version equals acct.Version, returning
//     common.ErrVersionConflict otherwise. On success acct.Version is bumped.
package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, acct *models.Account) error
	Update(ctx context.Context, acct *models.Account) error
}

func encode(acct *models.Account) ([]byte, error) {
	b, err := json.Marshal(acct)
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return b, nil
}

func decode(raw []byte) (*models.Account, error) {
	acct := &models.Account{}
	if err := json.Unmarshal(raw, acct); err != nil {
		return nil, fmt.Errorf("decode account: %w: %w", common.ErrInvalidPayload, err)
	}
	return acct, nil
}
