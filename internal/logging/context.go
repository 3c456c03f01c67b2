// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type loggerKey struct{}

// NewRunID returns a short random id for one command run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// NewRunContext returns ctx carrying a child of the process logger tagged
// with a fresh run_id. Call it after Init.
func NewRunContext(ctx context.Context) context.Context {
	return WithLogger(ctx, current().With().Str("run_id", NewRunID()).Logger())
}

// WithLogger returns ctx carrying l.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// Ctx returns the logger carried by ctx, or the process logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return &l
	}
	l := current()
	return &l
}
