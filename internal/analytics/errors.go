// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import "errors"

var (
	// ErrLocationNotFound is returned when a state or city filter matches nothing.
	ErrLocationNotFound = errors.New("location not found")

	// ErrMissingField is returned when a row or reward sample lacks a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidBucket is returned for bucket names other than hour, day, week, month or year.
	ErrInvalidBucket = errors.New("invalid bucket")
)
