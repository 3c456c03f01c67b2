// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable marks transport-class failures: network errors, non-2xx
	// responses and requests rejected by an open circuit breaker.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse marks a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// Unwrap classifies every status failure as ErrUnavailable.
func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}

// clientError reports whether the status is a 4xx that says nothing about
// upstream health, e.g. an unknown hotspot address.
func (e *StatusError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

// IsUnavailable reports whether err is a transport-class failure.
// Context cancellation and deadline expiry are never classified as unavailable.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrUnavailable)
}
