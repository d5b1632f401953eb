package cli

import (
	"context"
	"time"
)

// Sync runs a sync cycle now instead of waiting for the debounce.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Log in to sync.\n")
		return nil
	}
	if err := a.sync.SyncNow(ctx); err != nil {
		return err
	}
	a.printf("Synced.\n")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.sync.Status()
	a.printf("Connection: %s\n", a.Mode())
	if u := a.sync.Username(); u != "" {
		a.printf("Account:    %s\n", u)
	}
	a.printf("Sync:       %s\n", st.State)
	if !st.LastSyncedAt.IsZero() {
		a.printf("Last sync:  %s\n", st.LastSyncedAt.Local().Format(time.DateTime))
	}
	if st.Pending {
		a.printf("Changes are waiting to be synced.\n")
	}
	if st.LastError != nil {
		a.printf("Last error: %v\n", st.LastError)
	}
	return nil
}

// Reset logs out and wipes every local row. Data already on the server is
// not touched.
func (a *App) Reset(ctx context.Context) error {
	if !a.confirm("All local decks and cards will be deleted. Continue?") {
		return nil
	}
	a.auth.Logout(ctx)
	if err := a.local.Wipe(ctx); err != nil {
		return err
	}
	a.printf("Local data reset.\n")
	return nil
}
