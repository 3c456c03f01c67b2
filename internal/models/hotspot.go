// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package models

// Flattened column names read by the location partitioner and aggregator.
const (
	ColumnAddress        = "address"
	ColumnTimestampAdded = "timestamp_added"
	ColumnCountry        = "geocode.short_country"
	ColumnState          = "geocode.long_state"
	ColumnCity           = "geocode.long_city"
)

// Page is one hotspot listing response.
type Page struct {
	Data   []map[string]any `json:"data"`
	Cursor string           `json:"cursor,omitempty"` // Empty when the listing is exhausted
}

// HasCursor reports whether the listing has another page after this one.
func (p *Page) HasCursor() bool {
	return p.Cursor != ""
}

// LocationCount is the number of region hotspots in one state or city.
type LocationCount struct {
	State    string `json:"state"`
	City     string `json:"city,omitempty"` // Empty for the state-wide count
	Hotspots int    `json:"num_hotspots"`
}
