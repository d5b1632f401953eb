// Package server wires the sync server together: configuration, logging, the
// account store, services, the optional snapshot archiver and the HTTP API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/server/api"
	"github.com/dmitrijs2005/linguacards/internal/server/backup"
	"github.com/dmitrijs2005/linguacards/internal/server/config"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linguacards/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	flushLogger func()
	repos       repomanager.RepositoryManager
	server      *api.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, flush, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repos, err := repomanager.New(ctx, c.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	syncOpts := []services.SyncOption{services.WithMergeRetries(c.MergeRetries)}
	if c.Backup.Enabled {
		archiver, err := backup.NewS3Archiver(ctx, c.Backup)
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("backup init error: %w", err)
		}
		syncOpts = append(syncOpts, services.WithArchiver(archiver))
	}

	as := services.NewAccountService(repos.Accounts(), c.SecretKey, c.TokenValidity, logger.With("module", "accounts"))
	ss := services.NewSyncService(repos.Accounts(), logger.With("module", "sync"), syncOpts...)

	handler := api.NewHandler(as, ss, logger)
	srv := api.NewServer(c.Address, api.NewRouter(handler, logger), c.ShutdownTimeout, logger)

	logger.Info(ctx, "app initialized",
		"storage", c.Storage.Backend,
		"backup", c.Backup.Enabled,
		"log_format", c.LogFormat,
	)

	return &App{config: c, logger: logger, flushLogger: flush, repos: repos, server: srv}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing storage", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	app.flushLogger()
	return err
}

func newLogger(c *config.Config) (logging.Logger, func(), error) {
	switch c.LogFormat {
	case "zap":
		z, err := logging.NewZapProductionLogger(c.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return z, func() { _ = z.Sync() }, nil
	case "text":
		return logging.NewTextLogger(os.Stdout, c.LogLevel), func() {}, nil
	default:
		return logging.NewJSONLogger(os.Stdout, c.LogLevel), func() {}, nil
	}
}
