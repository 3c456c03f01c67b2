// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package logging configures the zerolog logger shared by helium-analytics.
//
// Output goes to stderr so the JSON artifact path and stdout stay free of log
// lines. Each command run gets its own child logger carried in the context:
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//	ctx = logging.NewRunContext(ctx)
//	logging.Ctx(ctx).Warn().Str("address", addr).Msg("Reward stats unavailable")
//
// Always terminate log chains with .Msg() or .Send().
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level  string // trace, debug, info, warn or error; default info
	Format string // json or console; default json
	Caller bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

var levels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

var (
	mu   sync.RWMutex
	base = build(Config{})
)

// ValidLevel reports whether level is one of the accepted level names.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

// Init replaces the process logger. Unknown levels fall back to info.
func Init(cfg Config) {
	l := build(cfg)

	mu.Lock()
	defer mu.Unlock()
	base = l
}

func build(cfg Config) zerolog.Logger {
	level, ok := levels[strings.ToLower(cfg.Level)]
	if !ok {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	// Per-logger levels decide; the global floor stays open.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Info starts an info message on the process logger.
func Info() *zerolog.Event {
	l := current()
	return l.Info()
}

// Fatal starts a fatal message; os.Exit(1) follows once it is sent.
func Fatal() *zerolog.Event {
	l := current()
	return l.Fatal()
}

// WithComponent returns a child of the process logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}

// NewTestLogger returns a debug-level JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel)
}
