// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package models

// NotApplicable marks the sentinel record returned when no location filter is given.
const NotApplicable = "N/A"

// Summary holds descriptive statistics of one reward series.
type Summary struct {
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Std   float64 `json:"std"` // Sample standard deviation (n-1)
	Count int     `json:"count"`
}

// LocationStats is the aggregate reward record for one location.
type LocationStats struct {
	State       string  `json:"state"`
	City        string  `json:"city"`
	Bucket      string  `json:"bucket,omitempty"`
	NumHotspots int     `json:"num_hotspots"`
	NumFailed   int     `json:"num_failed,omitempty"` // Addresses whose reward fetch failed
	TotalHNT    float64 `json:"total_hnt"`
	AvgHNT      float64 `json:"avg_hnt"`
	AvgMaxHNT   float64 `json:"avg_max_hnt"`
	AvgMinHNT   float64 `json:"avg_min_hnt"`
	AvgStdHNT   float64 `json:"avg_std_hnt"`
	MaxOfMax    float64 `json:"max_of_max"`
	MinOfMin    float64 `json:"min_of_min"`
	From        string  `json:"from"`
	To          string  `json:"to"`
}

// NotApplicableStats returns the zero sentinel record.
func NotApplicableStats() LocationStats {
	return LocationStats{
		State: NotApplicable,
		City:  NotApplicable,
	}
}

// HotspotReport is the reward report of a single hotspot.
type HotspotReport struct {
	Address     string  `json:"address"`
	Bucket      string  `json:"bucket"`
	TotalHNT    float64 `json:"total_hnt"`
	AvgHNT      float64 `json:"avg_hnt"`
	AvgMaxHNT   float64 `json:"avg_max_hnt"`
	AvgMinHNT   float64 `json:"avg_min_hnt"`
	AvgStdHNT   float64 `json:"avg_std_hnt"`
	MaxOfMax    float64 `json:"max_of_max"`
	MinOfMin    float64 `json:"min_of_min"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	HNTUSDPrice float64 `json:"hnt_usd_price"`
	TotalUSD    float64 `json:"total_usd"`
}
