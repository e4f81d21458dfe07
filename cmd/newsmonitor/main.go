package main

import (
	"context"
	"fmt"
	"os"

	"NewsMonitor/internal/app"
	"NewsMonitor/internal/config"
	"NewsMonitor/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	for _, warning := range warnings {
		logger.Warn("keyword diagnostic", "warning", warning)
	}

	application := app.New(cfg, logger)
	if err := application.Run(context.Background()); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
