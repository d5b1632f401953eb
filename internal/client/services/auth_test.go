package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	RegisterToken string
	RegisterErr   error
	LoginToken    string
	LoginErr      error
	PingErr       error

	registerCalls int
	loginCalls    int
	token         string
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Register(_ context.Context, _, _ string) (string, error) {
	f.registerCalls++
	return f.RegisterToken, f.RegisterErr
}

func (f *fakeClient) Login(_ context.Context, _, _ string) (string, error) {
	f.loginCalls++
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Load(context.Context, string) (*models.SyncData, error) { return nil, nil }

func (f *fakeClient) Merge(_ context.Context, _ string, d models.SyncData) (*models.SyncData, error) {
	return &d, nil
}

func (f *fakeClient) SetToken(token string) { f.token = token }

func TestRegister_ValidatesBeforeCallingServer(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "short username", username: "al", password: "secret1"},
		{name: "blank username", username: "   ", password: "secret1"},
		{name: "short password", username: "alice", password: "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			fs := &fakeSyncer{}
			err := NewAuthService(fc, fs).Register(context.Background(), tt.username, tt.password)
			require.ErrorIs(t, err, common.ErrInvalidPayload)
			assert.Zero(t, fc.registerCalls)
			assert.Empty(t, fs.loads)
		})
	}
}

func TestRegister_SetsTokenAndLoads(t *testing.T) {
	fc := &fakeClient{RegisterToken: "tok-1"}
	fs := &fakeSyncer{}

	err := NewAuthService(fc, fs).Register(context.Background(), " Alice ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", fc.token)
	assert.Equal(t, []string{"Alice"}, fs.loads)
}

func TestRegister_ServerErrorIsWrapped(t *testing.T) {
	fc := &fakeClient{RegisterErr: common.ErrConflict}
	fs := &fakeSyncer{}

	err := NewAuthService(fc, fs).Register(context.Background(), "alice", "secret1")
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Empty(t, fs.loads)
	assert.Empty(t, fc.token)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fc := &fakeClient{LoginToken: "tok-2"}
		fs := &fakeSyncer{}
		require.NoError(t, NewAuthService(fc, fs).Login(context.Background(), "alice", "pw"))
		assert.Equal(t, "tok-2", fc.token)
		assert.Equal(t, []string{"alice"}, fs.loads)
	})

	t.Run("missing credentials", func(t *testing.T) {
		fc := &fakeClient{}
		err := NewAuthService(fc, &fakeSyncer{}).Login(context.Background(), "", "pw")
		require.ErrorIs(t, err, common.ErrInvalidPayload)
		assert.Zero(t, fc.loginCalls)
	})

	t.Run("wrong password", func(t *testing.T) {
		fc := &fakeClient{LoginErr: common.ErrUnauthorized}
		fs := &fakeSyncer{}
		err := NewAuthService(fc, fs).Login(context.Background(), "alice", "pw")
		require.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Empty(t, fs.loads)
	})

	t.Run("initial load fails", func(t *testing.T) {
		fc := &fakeClient{LoginToken: "tok"}
		fs := &fakeSyncer{LoadErr: common.ErrRemoteUnavailable}
		err := NewAuthService(fc, fs).Login(context.Background(), "alice", "pw")
		require.ErrorIs(t, err, common.ErrRemoteUnavailable)
	})
}

func TestLogout_ClearsTokenAndStopsSync(t *testing.T) {
	fc := &fakeClient{token: "tok"}
	fs := &fakeSyncer{}

	NewAuthService(fc, fs).Logout(context.Background())
	assert.Empty(t, fc.token)
	assert.EqualValues(t, 1, fs.logouts.Load())
}

func TestPing_DelegatesToClient(t *testing.T) {
	down := errors.New("down")
	assert.NoError(t, NewAuthService(&fakeClient{}, &fakeSyncer{}).Ping(context.Background()))
	assert.ErrorIs(t, NewAuthService(&fakeClient{PingErr: down}, &fakeSyncer{}).Ping(context.Background()), down)
}
