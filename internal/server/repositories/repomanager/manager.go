// Package repomanager opens the configured account store and runs whatever
// schema setup it needs.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/config"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Close() error
}

// New opens the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (RepositoryManager, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	case config.BackendRedis:
		return NewRedisRepositoryManager(ctx, cfg)
	case config.BackendKVRest:
		return &staticManager{repo: accounts.NewKVRestRepository(cfg.KVRestURL, cfg.KVRestToken, cfg.RequestTimeout)}, nil
	case config.BackendMemory, "":
		repo, err := accounts.NewMemoryRepository(cfg.MemoryFile)
		if err != nil {
			return nil, err
		}
		return &staticManager{repo: repo}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q: %w", cfg.Backend, common.ErrConfiguration)
}

// staticManager wraps backends without connections or schema.
type staticManager struct {
	repo accounts.Repository
}

func (m *staticManager) RunMigrations(context.Context) error { return nil }
func (m *staticManager) Accounts() accounts.Repository       { return m.repo }
func (m *staticManager) Close() error                        { return nil }
