// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/grahambryan/helium-analytics/internal/analytics"
	"github.com/grahambryan/helium-analytics/internal/config"
	"github.com/grahambryan/helium-analytics/internal/export"
	"github.com/grahambryan/helium-analytics/internal/helium"
	"github.com/grahambryan/helium-analytics/internal/logging"
	"github.com/grahambryan/helium-analytics/internal/metrics"
	"github.com/grahambryan/helium-analytics/internal/pricing"
	"github.com/grahambryan/helium-analytics/internal/upstream"
	"github.com/grahambryan/helium-analytics/internal/validation"
)

// errUsage marks invalid command lines.
var errUsage = errors.New("usage error")

const usageText = `Usage: helium-analytics <command> [flags]

Commands:
  region     aggregate rewards for every city of a region
  location   aggregate rewards for one state or city
  hotspot    report rewards of one hotspot valued in USD
  hotspots   count a region's hotspots per state and city

Run 'helium-analytics <command> -h' for command flags.
`

// defaultCountsPath is the artifact of the hotspots command.
const defaultCountsPath = "hotspots.json"

// app wires the upstream clients for one invocation.
type app struct {
	cfg     *config.Config
	helium  *helium.Client
	pricing *pricing.Client
	stderr  io.Writer
}

func newApp(cfg *config.Config, stderr io.Writer) *app {
	requester := upstream.NewRequester(&cfg.HTTP)
	return &app{
		cfg:     cfg,
		helium:  helium.NewClient(cfg.Helium.URL, requester),
		pricing: pricing.NewClient(cfg.Pricing.URL, cfg.Pricing.AssetID, cfg.Pricing.Currency, requester),
		stderr:  stderr,
	}
}

// run dispatches one command and records its metrics.
func run(ctx context.Context, cfg *config.Config, args []string) error {
	return runWithOutput(ctx, cfg, args, os.Stderr)
}

func runWithOutput(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return fmt.Errorf("%w: no command given", errUsage)
	}

	a := newApp(cfg, stderr)
	commands := map[string]func(context.Context, []string) error{
		"region":   a.region,
		"location": a.location,
		"hotspot":  a.hotspot,
		"hotspots": a.hotspots,
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(stderr, usageText)
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	logging.Ctx(ctx).Info().Str("command", name).Msg("Starting command")

	start := time.Now()
	err := cmd(ctx, args[1:])
	metrics.RecordCommand(name, time.Since(start), err)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if writeErr := metrics.WriteTextfile(path); writeErr != nil {
			logging.Ctx(ctx).Warn().Err(writeErr).Str("path", path).Msg("Failed to write metrics textfile")
		}
	}

	return err
}

// parseFlags parses a command's flags, mapping parse failures to errUsage.
func (a *app) parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return nil
}

// loadTree fetches, flattens and partitions the hotspot listing.
func (a *app) loadTree(ctx context.Context, region string) (*analytics.LocationTree, error) {
	pages, err := analytics.FetchPages(ctx, a.helium, a.cfg.Helium.MaxPages)
	if err != nil {
		return nil, err
	}
	table := analytics.Flatten(pages)
	tree := analytics.Partition(table, region)

	logging.Ctx(ctx).Info().
		Int("pages", len(pages)).
		Int("hotspots", table.Len()).
		Int("columns", len(table.Columns)).
		Str("region", region).
		Int("region_hotspots", tree.Len()).
		Msg("Hotspot listing loaded")
	return tree, nil
}

func (a *app) region(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("region", flag.ContinueOnError)
	region := fs.String("region", a.cfg.Helium.Region, "short country code")
	out := fs.String("out", a.cfg.Output.Path, "output JSON path")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	tree, err := a.loadTree(ctx, *region)
	if err != nil {
		return err
	}

	results, err := analytics.NewAggregator(a.helium).AggregateRegion(ctx, tree)
	if err != nil {
		return err
	}
	return export.WriteJSON(results, *out)
}

func (a *app) location(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("location", flag.ContinueOnError)
	region := fs.String("region", a.cfg.Helium.Region, "short country code")
	state := fs.String("state", "", "state name, matched exactly")
	city := fs.String("city", "", "city name, matched case-insensitively")
	bucket := fs.String("bucket", analytics.DefaultBucket, "reward bucket: hour, day, week, month or year")
	maxTime := fs.String("max-time", "", "window end as mm/dd/yy (default now)")
	out := fs.String("out", a.cfg.Output.Path, "output JSON path")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	filter := analytics.LocationFilter{State: *state, City: *city, Bucket: *bucket}
	if *maxTime != "" {
		t, err := validation.ParseDate(*maxTime)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		filter.MaxTime = t
	}

	// The N/A record needs no listing.
	tree := analytics.Partition(&analytics.Table{}, *region)
	if *state != "" || *city != "" {
		var err error
		if tree, err = a.loadTree(ctx, *region); err != nil {
			return err
		}
	}

	stats, err := analytics.NewAggregator(a.helium).AggregateFiltered(ctx, tree, filter)
	if err != nil {
		return err
	}
	return export.WriteJSON(stats, *out)
}

func (a *app) hotspot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hotspot", flag.ContinueOnError)
	address := fs.String("address", "", "hotspot address")
	minTime := fs.String("min-time", analytics.DefaultMinDate, "window start as mm/dd/yy")
	maxTime := fs.String("max-time", "", "window end as mm/dd/yy (default today)")
	bucket := fs.String("bucket", analytics.DefaultBucket, "reward bucket: hour, day, week, month or year")
	out := fs.String("out", a.cfg.Output.Path, "output JSON path")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	report, err := analytics.NewReporter(a.helium, a.pricing).Report(ctx, analytics.ReportQuery{
		Address: *address,
		MinTime: *minTime,
		MaxTime: *maxTime,
		Bucket:  *bucket,
	})
	if err != nil {
		var ve *validation.RequestValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Fields {
				logging.Ctx(ctx).Warn().Str("field", fe.Field).Str("rule", fe.Tag).Msg(fe.Message)
			}
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return err
	}
	if report == nil {
		logging.Ctx(ctx).Warn().Str("address", *address).Msg("No report produced, output not written")
		return nil
	}

	logging.Ctx(ctx).Info().
		Str("currency", a.pricing.Currency()).
		Float64("price", report.HNTUSDPrice).
		Msg("Report valued at spot price")
	return export.WriteJSON(report, *out)
}

func (a *app) hotspots(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("hotspots", flag.ContinueOnError)
	region := fs.String("region", a.cfg.Helium.Region, "short country code")
	out := fs.String("out", defaultCountsPath, "output JSON path")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	tree, err := a.loadTree(ctx, *region)
	if err != nil {
		return err
	}
	return export.WriteJSON(tree.Counts(), *out)
}
