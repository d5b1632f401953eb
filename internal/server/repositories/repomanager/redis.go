package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/config"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
	goredis "github.com/redis/go-redis/v9"
)

type RedisRepositoryManager struct {
	rdb *goredis.Client
}

// NewRedisRepositoryManager connects and pings the Redis server.
func NewRedisRepositoryManager(ctx context.Context, cfg config.StorageConfig) (*RedisRepositoryManager, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RequestTimeout,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", common.ErrStorageUnavailable, err)
	}
	return &RedisRepositoryManager{rdb: rdb}, nil
}

func (m *RedisRepositoryManager) Accounts() accounts.Repository {
	return accounts.NewRedisRepository(m.rdb)
}

func (m *RedisRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *RedisRepositoryManager) Close() error {
	return m.rdb.Close()
}
