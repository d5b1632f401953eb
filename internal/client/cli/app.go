package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/client/client"
	"github.com/dmitrijs2005/linguacards/internal/client/config"
	"github.com/dmitrijs2005/linguacards/internal/client/orchestrator"
	"github.com/dmitrijs2005/linguacards/internal/client/services"
	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/filex"
	"github.com/dmitrijs2005/linguacards/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// syncController is the part of the orchestrator the REPL talks to directly.
type syncController interface {
	SyncNow(ctx context.Context) error
	Status() orchestrator.Status
	Username() string
	Close()
}

// localStore is what the REPL needs of the store beyond the services.
type localStore interface {
	Owner(ctx context.Context) (string, error)
	Wipe(ctx context.Context) error
	Close() error
}

type App struct {
	config *config.Config
	log    logging.Logger

	auth    services.AuthService
	library services.LibraryService
	study   services.StudyService
	bulk    services.BulkService
	profile services.ProfileService
	sync    syncController
	local   localStore

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local store and wires the services around it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	orch := orchestrator.New(st, api, log,
		orchestrator.WithDebounce(c.SyncDebounce),
		orchestrator.WithSyncTimeout(2*c.RequestTimeout),
	)

	a := &App{
		config:  c,
		log:     log,
		auth:    services.NewAuthService(api, orch),
		library: services.NewLibraryService(st, orch),
		study:   services.NewStudyService(st, orch),
		bulk:    services.NewBulkService(st, orch, log),
		profile: services.NewProfileService(st, orch),
		sync:    orch,
		local:   st,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		mode:    ModeDisabled,
	}
	if c.SyncEnabled() {
		a.mode = ModeOffline
	}
	return a, nil
}

// Run performs the daily checks, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to LinguaCards (type 'help' for commands)\n")
	a.dailyCheck(ctx)

	if owner, err := a.local.Owner(ctx); err == nil && owner != "" {
		a.printf("Local data belongs to %s. Type 'login' to resume syncing.\n", owner)
	}

	if a.config.SyncEnabled() {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops syncing and closes the local store.
func (a *App) Close() error {
	a.sync.Close()
	return a.local.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn() bool {
	return a.sync.Username() != ""
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := string(a.Mode())
	if u := a.sync.Username(); u != "" {
		s = fmt.Sprintf("%s %s %s", u, s, a.sync.Status().State)
	}
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, interval)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// dailyCheck rolls the daily goals over and pays the streak bonus once a day.
func (a *App) dailyCheck(ctx context.Context) {
	if _, err := a.profile.RefreshDailyGoals(ctx); err != nil {
		a.log.Error(ctx, "daily goals refresh failed", "error", err)
	}
	res, err := a.profile.CheckStreak(ctx)
	if err != nil {
		a.log.Error(ctx, "streak check failed", "error", err)
		return
	}
	if res.Checked && res.Streak > 0 {
		a.printf("Streak: %d day(s)\n", res.Streak)
	}
	a.printReward(res.Reward)
}
