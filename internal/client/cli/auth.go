package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/linguacards/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Register creates an account and loads it into this device.
func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	if err := a.auth.Register(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrConflict) {
			a.printf("Username %q is taken.\n", username)
		}
		return err
	}
	a.setMode(ctx, ModeOnline)
	a.printf("Welcome, %s! Your cards will sync automatically.\n", username)
	return nil
}

// Login authenticates and merges the account's server data with local data.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	if err := a.auth.Login(ctx, username, password); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			a.printf("No account named %q.\n", username)
		case errors.Is(err, common.ErrUnauthorized):
			a.printf("Wrong password.\n")
		case errors.Is(err, common.ErrRemoteUnavailable):
			a.setMode(ctx, ModeOffline)
		}
		return err
	}
	a.setMode(ctx, ModeOnline)
	a.printf("Logged in as %s.\n", username)
	return nil
}

// Logout stops syncing. Local data stays on the device.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Not logged in.\n")
		return nil
	}
	a.auth.Logout(ctx)
	a.printf("Logged out. Local data is kept.\n")
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return err
	}
	a.setMode(ctx, ModeOnline)
	a.printf("pong\n")
	return nil
}
