// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package models

// RewardSample is one time bucket of a hotspot's reward series.
// Only Total feeds the statistics; the other fields are kept as returned.
type RewardSample struct {
	Timestamp string   `json:"timestamp"`
	Total     *float64 `json:"total"` // nil when the API omitted the field
	Sum       float64  `json:"sum"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Median    float64  `json:"median"`
	Avg       float64  `json:"avg"`
	Stddev    float64  `json:"stddev"`
}

// RewardMeta echoes the window the rewards endpoint actually served.
type RewardMeta struct {
	MinTime string `json:"min_time"`
	MaxTime string `json:"max_time"`
	Bucket  string `json:"bucket,omitempty"`
}

// RewardSeries is a rewards/stats response.
type RewardSeries struct {
	Data []RewardSample `json:"data"`
	Meta RewardMeta     `json:"meta"`
}

// Totals returns the Total of every sample in order.
// The second result is the index of the first sample without a total, or -1.
func (s *RewardSeries) Totals() ([]float64, int) {
	totals := make([]float64, 0, len(s.Data))
	for i := range s.Data {
		if s.Data[i].Total == nil {
			return nil, i
		}
		totals = append(totals, *s.Data[i].Total)
	}
	return totals, -1
}
