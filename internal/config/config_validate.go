// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package config

import (
	"fmt"
	"strings"

	"github.com/grahambryan/helium-analytics/internal/logging"
)

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that configuration values are present and usable.
func (c *Config) Validate() error {
	if err := c.validateHelium(); err != nil {
		return err
	}

	if err := c.validatePricing(); err != nil {
		return err
	}

	if err := c.validateHTTP(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateHelium validates the Helium API configuration
func (c *Config) validateHelium() error {
	if c.Helium.URL == "" {
		return fmt.Errorf("HELIUM_API_URL is required")
	}
	if err := validateEndpointURL(c.Helium.URL, "HELIUM_API_URL"); err != nil {
		return fmt.Errorf("HELIUM_API_URL is invalid: %w", err)
	}
	if c.Helium.MaxPages < 1 {
		return fmt.Errorf("HELIUM_MAX_PAGES must be at least 1, got %d", c.Helium.MaxPages)
	}
	if strings.TrimSpace(c.Helium.Region) == "" {
		return fmt.Errorf("HELIUM_REGION must not be empty")
	}
	return nil
}

// validatePricing validates the price lookup configuration
func (c *Config) validatePricing() error {
	if c.Pricing.URL == "" {
		return fmt.Errorf("PRICE_API_URL is required")
	}
	if err := validateEndpointURL(c.Pricing.URL, "PRICE_API_URL"); err != nil {
		return fmt.Errorf("PRICE_API_URL is invalid: %w", err)
	}
	if c.Pricing.AssetID == "" {
		return fmt.Errorf("PRICE_ASSET_ID is required")
	}
	if c.Pricing.Currency == "" {
		return fmt.Errorf("PRICE_CURRENCY is required")
	}
	return nil
}

// validateHTTP validates the upstream client settings
func (c *Config) validateHTTP() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTP.Timeout)
	}
	if c.HTTP.RequestsPerSecond <= 0 {
		return fmt.Errorf("HTTP_REQUESTS_PER_SECOND must be positive, got %v", c.HTTP.RequestsPerSecond)
	}
	if c.HTTP.Burst < 1 {
		return fmt.Errorf("HTTP_BURST must be at least 1, got %d", c.HTTP.Burst)
	}
	if c.HTTP.BreakerMaxRequests < 1 {
		return fmt.Errorf("HTTP_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if c.HTTP.BreakerMinRequests < 1 {
		return fmt.Errorf("HTTP_BREAKER_MIN_REQUESTS must be at least 1, got %d", c.HTTP.BreakerMinRequests)
	}
	if c.HTTP.BreakerTimeout <= 0 {
		return fmt.Errorf("HTTP_BREAKER_TIMEOUT must be positive, got %v", c.HTTP.BreakerTimeout)
	}
	if c.HTTP.BreakerFailureRatio <= 0 || c.HTTP.BreakerFailureRatio > 1 {
		return fmt.Errorf("HTTP_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.HTTP.BreakerFailureRatio)
	}
	return nil
}

// validateOutput validates the output configuration
func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}
	return nil
}

// validateLogging validates the logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
