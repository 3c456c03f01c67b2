// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// DefaultDotEnvPaths lists the dotenv files tried before environment variables are read.
// Only the first existing file is loaded.
var DefaultDotEnvPaths = []string{
	".env",
}

const (
	// ConfigPathEnvVar is the environment variable that can override the config file path.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DefaultHeliumURL is the public Helium hotspot listing endpoint.
	DefaultHeliumURL = "https://api.helium.io/v1/hotspots"

	// DefaultPricingURL is the public CoinGecko simple price endpoint.
	DefaultPricingURL = "https://api.coingecko.com/api/v3/simple/price"

	// DefaultOutputPath is where results are written when no path is given.
	DefaultOutputPath = "data.json"
)

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Helium: HeliumConfig{
			URL:      DefaultHeliumURL,
			MaxPages: 50,
			Region:   "US",
		},
		Pricing: PricingConfig{
			URL:      DefaultPricingURL,
			AssetID:  "helium",
			Currency: "usd",
		},
		HTTP: HTTPConfig{
			Timeout:             30 * time.Second,
			RequestsPerSecond:   5,
			Burst:               1,
			BreakerMaxRequests:  3,
			BreakerInterval:     1 * time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Precedence: ENV (including .env) > File > Defaults
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Export .env values into the environment (existing vars win)
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Layer 4: Load environment variables (highest priority)
	// HELIUM_API_URL -> helium.url
	// HTTP_TIMEOUT   -> http.timeout
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadDotEnv loads the first dotenv file found in DefaultDotEnvPaths.
// Variables already present in the environment are not overwritten.
func loadDotEnv() error {
	for _, path := range DefaultDotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load dotenv file %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf config paths.
var envMappings = map[string]string{
	// Helium mappings
	"helium_api_url":   "helium.url",
	"helium_max_pages": "helium.max_pages",
	"helium_region":    "helium.region",

	// Pricing mappings
	"price_api_url":  "pricing.url",
	"price_asset_id": "pricing.asset_id",
	"price_currency": "pricing.currency",

	// HTTP client mappings
	"http_timeout":               "http.timeout",
	"http_requests_per_second":   "http.requests_per_second",
	"http_burst":                 "http.burst",
	"http_breaker_max_requests":  "http.breaker_max_requests",
	"http_breaker_interval":      "http.breaker_interval",
	"http_breaker_timeout":       "http.breaker_timeout",
	"http_breaker_min_requests":  "http.breaker_min_requests",
	"http_breaker_failure_ratio": "http.breaker_failure_ratio",

	// Output mappings
	"output_path": "output.path",

	// Metrics mappings
	"metrics_textfile_path": "metrics.textfile_path",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return an empty string so unrelated variables are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
