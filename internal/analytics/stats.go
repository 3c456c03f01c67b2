// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"math"

	"github.com/grahambryan/helium-analytics/internal/models"
)

// Summarize computes descriptive statistics of a reward series.
// An empty series yields the zero Summary. Std is the sample standard
// deviation (n-1 denominator) and 0 for a single value.
func Summarize(values []float64) models.Summary {
	if len(values) == 0 {
		return models.Summary{}
	}

	s := models.Summary{
		Count: len(values),
		Max:   values[0],
		Min:   values[0],
	}
	for _, v := range values {
		s.Sum += v
		if v > s.Max {
			s.Max = v
		}
		if v < s.Min {
			s.Min = v
		}
	}
	s.Mean = s.Sum / float64(len(values))

	if len(values) == 1 {
		return s
	}

	varianceSum := 0.0
	for _, v := range values {
		varianceSum += (v - s.Mean) * (v - s.Mean)
	}
	s.Std = math.Sqrt(varianceSum / float64(len(values)-1))
	return s
}

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// maxOf returns the largest value, 0 for an empty slice.
func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

// minOf returns the smallest value, 0 for an empty slice.
func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}
