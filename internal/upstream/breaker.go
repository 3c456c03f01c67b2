// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package upstream

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/grahambryan/helium-analytics/internal/metrics"
)

// breaker returns the circuit breaker for an upstream, creating it on first use.
//
// Configuration comes from config.HTTPConfig:
//   - BreakerMaxRequests probes allowed in half-open state
//   - BreakerInterval measurement window in closed state
//   - BreakerTimeout wait before open transitions to half-open
//   - Opens at BreakerFailureRatio with at least BreakerMinRequests requests
func (r *Requester) breaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	minRequests := r.cfg.BreakerMinRequests
	failureRatio := r.cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: r.cfg.BreakerMaxRequests,
		Interval:    r.cfg.BreakerInterval,
		Timeout:     r.cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := ratio >= failureRatio

			if shouldTrip {
				r.log.Warn().Str("upstream", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// Client errors and cancellations do not count against upstream health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.clientError()
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			r.log.Info().Str("upstream", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	r.breakers[name] = cb
	return cb
}

// execute runs fn through the upstream's circuit breaker and records the outcome.
// Rejections by an open or saturated breaker are returned wrapping ErrUnavailable.
func (r *Requester) execute(name string, fn func() ([]byte, error)) ([]byte, error) {
	cb := r.breaker(name)

	body, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			r.log.Warn().Err(err).Str("upstream", name).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &rejectedError{upstream: name, err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	return body, nil
}

// rejectedError is returned when the breaker refuses a request.
type rejectedError struct {
	upstream string
	err      error
}

func (e *rejectedError) Error() string {
	return e.upstream + " request rejected: " + e.err.Error()
}

// Unwrap exposes both the gobreaker sentinel and ErrUnavailable.
func (e *rejectedError) Unwrap() []error {
	return []error{e.err, ErrUnavailable}
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
