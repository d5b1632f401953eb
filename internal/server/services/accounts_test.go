package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(newMemoryRepo(t), testSecret, time.Hour, logging.NewNopLogger())
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newAccountService(t)

	reg, err := s.Register(ctx, "Alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", reg.Username)

	owner, err := s.Authenticate(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	login, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", login.Username)
	assert.NotEmpty(t, login.Token)
}

func TestAccountService_RegisterTwice(t *testing.T) {
	ctx := context.Background()
	s := newAccountService(t)

	_, err := s.Register(ctx, "Alice", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other-secret")
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = s.Login(ctx, "Alice", "secret1")
	assert.NoError(t, err, "first registration keeps its password")
}

func TestAccountService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	s := newAccountService(t)
	_, err := s.Register(ctx, "bob", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown account", username: "ghost", password: "secret1", wantErr: common.ErrNotFound},
		{name: "wrong password", username: "bob", password: "secret2", wantErr: common.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewAccountService(failingRepo{err: common.ErrRemoteUnavailable}, testSecret, time.Hour, logging.NewNopLogger())

	_, err := s.Register(ctx, "carol", "secret1")
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)

	_, err = s.Login(ctx, "carol", "secret1")
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
}

func TestAccountService_AuthenticateRejectsForeignToken(t *testing.T) {
	other := NewAccountService(newMemoryRepo(t), "another-secret", time.Hour, logging.NewNopLogger())
	sess, err := other.Register(context.Background(), "dave", "secret1")
	require.NoError(t, err)

	_, err = newAccountService(t).Authenticate(sess.Token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
