// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package metrics provides Prometheus instrumentation for helium-analytics.
//
// The tool runs once and exits, so nothing is scraped. Collectors live on a
// package registry and WriteTextfile dumps them in the text exposition format
// for node_exporter's textfile collector.
//
// Available metrics:
//   - helium_upstream_requests_total{upstream,endpoint,status}
//   - helium_upstream_request_duration_seconds{upstream,endpoint}
//   - helium_listing_pages_fetched_total
//   - helium_listing_pagination_stops_total{reason}
//   - helium_hotspots_flattened_total
//   - helium_reward_fetches_total{outcome}
//   - helium_locations_aggregated_total
//   - helium_command_duration_seconds{command}
//   - helium_command_runs_total{command,result}
//   - circuit_breaker_state{name}
//   - circuit_breaker_requests_total{name,result}
//   - circuit_breaker_state_transitions_total{name,from_state,to_state}
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every helium-analytics collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Upstream HTTP Metrics
	UpstreamRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helium_upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"upstream", "endpoint", "status"}, // status: HTTP code, "error" or "rejected"
	)

	UpstreamRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helium_upstream_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"upstream", "endpoint"},
	)

	// Listing Metrics
	PagesFetched = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "helium_listing_pages_fetched_total",
			Help: "Total number of hotspot listing pages collected",
		},
	)

	PaginationStops = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helium_listing_pagination_stops_total",
			Help: "Total number of pagination runs by stop reason",
		},
		[]string{"reason"}, // "no_cursor", "max_pages", "unavailable"
	)

	HotspotsFlattened = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "helium_hotspots_flattened_total",
			Help: "Total number of hotspot records flattened into table rows",
		},
	)

	// Aggregation Metrics
	RewardFetches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helium_reward_fetches_total",
			Help: "Total number of per-hotspot reward series fetches by outcome",
		},
		[]string{"outcome"}, // "success", "unavailable"
	)

	LocationsAggregated = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "helium_locations_aggregated_total",
			Help: "Total number of locations folded into summary records",
		},
	)

	// Command Metrics
	CommandDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helium_command_duration_seconds",
			Help:    "Duration of CLI command runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"command"},
	)

	CommandRuns = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helium_command_runs_total",
			Help: "Total number of CLI command runs by result",
		},
		[]string{"command", "result"}, // result: "success", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordUpstreamRequest records one upstream API request.
func RecordUpstreamRequest(upstream, endpoint, status string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(upstream, endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream, endpoint).Observe(duration.Seconds())
}

// RecordPaginationStop records why a listing pagination run ended.
func RecordPaginationStop(reason string, pages int) {
	PaginationStops.WithLabelValues(reason).Inc()
	PagesFetched.Add(float64(pages))
}

// RecordRewardFetch records the outcome of one reward series fetch.
func RecordRewardFetch(success bool) {
	if success {
		RewardFetches.WithLabelValues("success").Inc()
		return
	}
	RewardFetches.WithLabelValues("unavailable").Inc()
}

// RecordCommand records a completed CLI command run.
func RecordCommand(command string, duration time.Duration, err error) {
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	CommandRuns.WithLabelValues(command, result).Inc()
}

// WriteTextfile writes the current registry state to path in the Prometheus
// text format. The file is written atomically by the client library.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
