// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package export writes analysis results to the JSON artifact.
package export

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/grahambryan/helium-analytics/internal/config"
	"github.com/grahambryan/helium-analytics/internal/logging"
)

// Envelope is the top-level shape of the artifact.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes {"data": data} to path, replacing any existing content.
// An empty path writes to config.DefaultOutputPath.
func WriteJSON(data any, path string) error {
	if path == "" {
		path = config.DefaultOutputPath
	}

	encoded, err := json.MarshalIndent(Envelope{Data: data}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logging.Info().Str("path", path).Int("bytes", len(encoded)).Msg("Results written")
	return nil
}
