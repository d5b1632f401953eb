package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/client/client"
	"github.com/dmitrijs2005/linguacards/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create the account on the server, then load it into the device.
//   - Login: authenticate, then load the account into the device.
//   - Logout: forget the session token and stop syncing. Local data stays.
//   - Ping: check server liveness.
//
// Loading after Register or Login wipes the local store only when it belongs
// to a different account; otherwise local and remote data are merged.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
}

type credentials struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
}

type authService struct {
	client client.Client
	sync   Syncer
}

// NewAuthService constructs an AuthService bound to the given API client and
// sync orchestrator.
func NewAuthService(client client.Client, sync Syncer) AuthService {
	return &authService{client: client, sync: sync}
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidPayload, err)
	}

	token, err := a.client.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return a.start(ctx, username, token)
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", common.ErrInvalidPayload)
	}

	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.start(ctx, username, token)
}

func (a *authService) start(ctx context.Context, username, token string) error {
	a.client.SetToken(token)
	if err := a.sync.Load(ctx, username); err != nil {
		return fmt.Errorf("initial sync error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	a.sync.Logout()
	a.client.SetToken("")
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
