// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package main is the entry point for the helium-analytics command.
//
// helium-analytics pages through the public Helium hotspot listing, groups a
// region's hotspots by state and city, folds per-hotspot reward series into
// summary statistics and writes the result to a JSON file.
//
// # Commands
//
//	helium-analytics region   [-region US] [-out data.json]
//	helium-analytics location -state S | -city C [-bucket day] [-max-time mm/dd/yy] [-out data.json]
//	helium-analytics hotspot  -address A [-min-time 12/01/16] [-max-time mm/dd/yy] [-bucket day] [-out data.json]
//	helium-analytics hotspots [-region US] [-out hotspots.json]
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables, including an optional .env file
//   - Config file (CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// Logs are written to stderr. SIGINT and SIGTERM cancel in-flight requests.
// When METRICS_TEXTFILE_PATH is set, Prometheus metrics are written there on exit.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grahambryan/helium-analytics/internal/config"
	"github.com/grahambryan/helium-analytics/internal/logging"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx = logging.NewRunContext(ctx)

	code := exitOK
	if err := run(ctx, cfg, os.Args[1:]); err != nil {
		code = exitError
		if errors.Is(err, errUsage) {
			code = exitUsage
		}
		logging.Ctx(ctx).Error().Err(err).Msg("Command failed")
	}

	stop()
	os.Exit(code)
}
