package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core).Sugar())
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.With("user", "alice").Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "inf", entries[1].Message)
	assert.Equal(t, map[string]any{"user": "alice", "b": int64(2)}, entries[1].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, zapLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, zapLevel("nonsense"))
	assert.Equal(t, zapcore.WarnLevel, zapLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, zapLevel("error"))
}

func TestRotatingFile_Writer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	w := RotatingFile{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}.Writer()

	log := NewTextLogger(w, "info")
	log.Info(context.Background(), "to file")
	require.NoError(t, w.Close())

	assert.FileExists(t, path)
}
