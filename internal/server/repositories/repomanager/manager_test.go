package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/config"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.StorageConfig
		want accounts.Repository
	}{
		{name: "memory", cfg: config.StorageConfig{Backend: config.BackendMemory}, want: &accounts.MemoryRepository{}},
		{name: "default", cfg: config.StorageConfig{}, want: &accounts.MemoryRepository{}},
		{name: "kvrest", cfg: config.StorageConfig{Backend: config.BackendKVRest, KVRestURL: "http://kv", KVRestToken: "t", RequestTimeout: time.Second}, want: &accounts.KVRestRepository{}},
		{name: "redis", cfg: config.StorageConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr(), RequestTimeout: time.Second}, want: &accounts.RedisRepository{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(ctx, tt.cfg)
			require.NoError(t, err)
			defer m.Close()

			require.NoError(t, m.RunMigrations(ctx))
			assert.IsType(t, tt.want, m.Accounts())
		})
	}
}

func TestNew_RedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	m, err := New(ctx, config.StorageConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr(), RequestTimeout: time.Second})
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Accounts().Create(ctx, models.NewAccount("alice", "h")))
	got, err := m.Accounts().Get(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Version)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, config.StorageConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = New(ctx, config.StorageConfig{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1", RequestTimeout: 100 * time.Millisecond})
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}
