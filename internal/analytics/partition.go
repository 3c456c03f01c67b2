// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"github.com/grahambryan/helium-analytics/internal/models"
)

// StateBucket holds the rows of one state and their split by city.
// Rows without a city appear only in Rows.
type StateBucket struct {
	Rows   []Row
	cities map[string][]Row
}

// Cities returns the state's city names, sorted.
func (b *StateBucket) Cities() []string {
	return sortedKeys(b.cities)
}

// City returns the rows of one city.
func (b *StateBucket) City(name string) ([]Row, bool) {
	rows, ok := b.cities[name]
	return rows, ok
}

// LocationTree groups a region's rows by state and city.
// Every region row is in exactly one state bucket and at most one city of it.
// Rows without a state are grouped under the empty state name.
type LocationTree struct {
	Region string
	states map[string]*StateBucket
}

// States returns the tree's state names, sorted.
func (t *LocationTree) States() []string {
	return sortedKeys(t.states)
}

// State returns the bucket of one state.
func (t *LocationTree) State(name string) (*StateBucket, bool) {
	b, ok := t.states[name]
	return b, ok
}

// Len returns the number of rows in the tree.
func (t *LocationTree) Len() int {
	n := 0
	for _, b := range t.states {
		n += len(b.Rows)
	}
	return n
}

// Counts returns per-state and per-city hotspot counts in sorted order.
// Each state's count precedes the counts of its cities.
func (t *LocationTree) Counts() []models.LocationCount {
	var counts []models.LocationCount
	for _, state := range t.States() {
		bucket := t.states[state]
		counts = append(counts, models.LocationCount{State: state, Hotspots: len(bucket.Rows)})
		for _, city := range bucket.Cities() {
			counts = append(counts, models.LocationCount{State: state, City: city, Hotspots: len(bucket.cities[city])})
		}
	}
	return counts
}

// Partition keeps the rows whose geocode.short_country equals region exactly
// and groups them by geocode.long_state and geocode.long_city.
func Partition(table *Table, region string) *LocationTree {
	tree := &LocationTree{
		Region: region,
		states: make(map[string]*StateBucket),
	}

	for _, row := range table.Rows {
		if row.String(models.ColumnCountry) != region {
			continue
		}

		state := row.String(models.ColumnState)
		bucket, ok := tree.states[state]
		if !ok {
			bucket = &StateBucket{cities: make(map[string][]Row)}
			tree.states[state] = bucket
		}
		bucket.Rows = append(bucket.Rows, row)

		if city := row.String(models.ColumnCity); city != "" {
			bucket.cities[city] = append(bucket.cities[city], row)
		}
	}

	return tree
}
