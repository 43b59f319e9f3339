package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-mvc/demo"
	"github.com/km-arc/go-mvc/framework/app"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/logging"
)

func main() {
	cfg, err := config.Load() // loads .env automatically
	if err != nil {
		logging.New("error", "text", os.Stderr).Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Scan.Package == "" {
		cfg.Scan.Package = demo.Root
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	application := app.New(cfg, logger, &demo.Provider{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
