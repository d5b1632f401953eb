package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/linguacards/internal/buildinfo"
	"github.com/dmitrijs2005/linguacards/internal/client/cli"
	"github.com/dmitrijs2005/linguacards/internal/client/config"
	"github.com/dmitrijs2005/linguacards/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logFile := logging.RotatingFile{Path: cfg.LogFile, MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}.Writer()
	defer logFile.Close()
	logger := logging.NewTextLogger(logFile, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
