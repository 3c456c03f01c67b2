// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grahambryan/helium-analytics/internal/helium"
	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
)

// errUnavailable is a transport-class failure as the requester reports it.
var errUnavailable = &upstream.StatusError{Upstream: "test", StatusCode: http.StatusServiceUnavailable, Body: "down"}

// fakeLister serves pages in order and records the cursors it was called with.
type fakeLister struct {
	pages   []*models.Page
	errs    map[int]error
	cursors []string
}

func (f *fakeLister) ListHotspots(ctx context.Context, cursor string) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := len(f.cursors)
	f.cursors = append(f.cursors, cursor)
	if err, ok := f.errs[i]; ok {
		return nil, err
	}
	if i >= len(f.pages) {
		return nil, errUnavailable
	}
	return f.pages[i], nil
}

// fakeRewards serves reward totals per address and records the queries.
type fakeRewards struct {
	totals  map[string][]float64
	errs    map[string]error
	series  map[string]*models.RewardSeries
	queries map[string]helium.RewardQuery
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{
		totals:  make(map[string][]float64),
		errs:    make(map[string]error),
		series:  make(map[string]*models.RewardSeries),
		queries: make(map[string]helium.RewardQuery),
	}
}

func (f *fakeRewards) RewardStats(_ context.Context, address string, q helium.RewardQuery) (*models.RewardSeries, error) {
	f.queries[address] = q
	if err, ok := f.errs[address]; ok {
		return nil, err
	}
	if s, ok := f.series[address]; ok {
		return s, nil
	}
	series := &models.RewardSeries{Meta: models.RewardMeta{MinTime: q.MinTime, MaxTime: q.MaxTime}}
	for _, v := range f.totals[address] {
		total := v
		series.Data = append(series.Data, models.RewardSample{Total: &total})
	}
	return series, nil
}

// fakePrices returns a fixed spot price or an error.
type fakePrices struct {
	price decimal.Decimal
	err   error
	calls int
}

func (f *fakePrices) SpotPrice(context.Context) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.price, nil
}

// hotspot builds a raw listing record.
func hotspot(address, added, country, state, city string) map[string]any {
	geocode := map[string]any{"short_country": country}
	if state != "" {
		geocode["long_state"] = state
	}
	if city != "" {
		geocode["long_city"] = city
	}
	return map[string]any{
		"address":         address,
		"timestamp_added": added,
		"geocode":         geocode,
	}
}

// treeOf flattens and partitions records in one step.
func treeOf(region string, records ...map[string]any) *LocationTree {
	return Partition(Flatten([]models.Page{{Data: records}}), region)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pageWithCursor(cursor string, addresses ...string) *models.Page {
	page := &models.Page{Cursor: cursor}
	for _, a := range addresses {
		page.Data = append(page.Data, map[string]any{"address": a})
	}
	return page
}

func pageAddresses(pages []models.Page) []string {
	var out []string
	for _, p := range pages {
		for _, r := range p.Data {
			out = append(out, fmt.Sprint(r["address"]))
		}
	}
	return out
}
