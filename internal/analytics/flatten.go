// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"sort"

	"github.com/grahambryan/helium-analytics/internal/metrics"
	"github.com/grahambryan/helium-analytics/internal/models"
)

// Row maps dotted column names to scalar JSON values.
type Row map[string]any

// String returns the column's value if it is a string, else "".
func (r Row) String(column string) string {
	if s, ok := r[column].(string); ok {
		return s
	}
	return ""
}

// Table is the flattened hotspot listing.
type Table struct {
	// Columns is the union of row keys in first-seen order.
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Flatten concatenates every record of every page and normalizes nested
// objects into dotted columns. Arrays and scalars are kept as values.
// Keys of one object are visited in sorted order so Columns is deterministic.
func Flatten(pages []models.Page) *Table {
	table := &Table{}
	seen := make(map[string]struct{})

	for i := range pages {
		for _, record := range pages[i].Data {
			row := make(Row, len(record))
			flattenInto(row, "", record)

			for _, col := range sortedKeys(row) {
				if _, ok := seen[col]; !ok {
					seen[col] = struct{}{}
					table.Columns = append(table.Columns, col)
				}
			}
			table.Rows = append(table.Rows, row)
		}
	}

	metrics.HotspotsFlattened.Add(float64(len(table.Rows)))
	return table
}

func flattenInto(row Row, prefix string, obj map[string]any) {
	for key, value := range obj {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(row, name, nested)
			continue
		}
		row[name] = value
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
