// Package models contains server-side storage types.
package models

import (
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

// Account is the document stored per user under common.AccountKey.
//
// Version is an optimistic-concurrency counter. A freshly created account has
// version 1; every successful conditional update bumps it by one.
type Account struct {
	Username     string          `json:"username"`
	PasswordHash string          `json:"passwordHash"`
	Data         models.SyncData `json:"data"`
	Version      int64           `json:"version"`
}

// NewAccount returns an account with an empty snapshot.
func NewAccount(username, passwordHash string) *Account {
	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		Data:         models.Empty(),
	}
}

// Key is the storage key of the account.
func (a *Account) Key() string {
	return common.AccountKey(a.Username)
}
