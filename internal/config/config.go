// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package config loads helium-analytics configuration from defaults, an optional
// YAML file, an optional .env file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values pointing at the public Helium and CoinGecko APIs
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. .env File: optional dotenv file, exported into the process environment
//  4. Environment Variables: override any setting through the mapping in koanf.go
//
// Configuration Categories:
//
//   - Helium: listing endpoint, page cap and default region
//   - Pricing: spot price endpoint, asset id and quote currency
//   - HTTP: client timeout, request pacing and circuit breaker thresholds
//   - Output: default JSON artifact path
//   - Metrics: optional Prometheus textfile destination
//   - Logging: level, format and caller annotation
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	client := helium.NewClient(cfg.Helium.URL, requester)
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Helium  HeliumConfig  `koanf:"helium"`
	Pricing PricingConfig `koanf:"pricing"`
	HTTP    HTTPConfig    `koanf:"http"`
	Output  OutputConfig  `koanf:"output"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

// HeliumConfig configures access to the Helium hotspot API.
type HeliumConfig struct {
	// URL is the hotspot listing endpoint. Reward statistics are requested
	// under {URL}/{address}/rewards/stats.
	URL string `koanf:"url"`

	// MaxPages caps how many listing pages are collected per run.
	MaxPages int `koanf:"max_pages"`

	// Region is the default short country code used for partitioning.
	Region string `koanf:"region"`
}

// PricingConfig configures the spot price lookup.
type PricingConfig struct {
	URL      string `koanf:"url"`
	AssetID  string `koanf:"asset_id"`
	Currency string `koanf:"currency"`
}

// HTTPConfig configures the shared upstream HTTP client.
type HTTPConfig struct {
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	// Circuit breaker settings, applied per upstream.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// OutputConfig configures the JSON artifact.
type OutputConfig struct {
	Path string `koanf:"path"`
}

// MetricsConfig configures Prometheus metrics export.
// An empty TextfilePath disables the textfile write on exit.
type MetricsConfig struct {
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
