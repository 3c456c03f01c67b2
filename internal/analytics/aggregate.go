// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grahambryan/helium-analytics/internal/helium"
	"github.com/grahambryan/helium-analytics/internal/logging"
	"github.com/grahambryan/helium-analytics/internal/metrics"
	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
	"github.com/grahambryan/helium-analytics/internal/validation"
)

// Default buckets for region-wide and filtered aggregation.
const (
	RegionBucket  = "hour"
	DefaultBucket = "day"
)

// RewardFetcher returns the reward series of one hotspot.
type RewardFetcher interface {
	RewardStats(ctx context.Context, address string, q helium.RewardQuery) (*models.RewardSeries, error)
}

// LocationFilter selects one location for AggregateFiltered.
//
// With only State set the whole state is aggregated. With City set the city
// is matched case-insensitively, inside State when State is also set.
type LocationFilter struct {
	State   string
	City    string
	MaxTime time.Time // zero means now
	Bucket  string    // empty means day
}

// Aggregator folds per-hotspot reward series into location statistics.
type Aggregator struct {
	rewards RewardFetcher
	now     func() time.Time
}

// NewAggregator creates an Aggregator that fetches series through rewards.
func NewAggregator(rewards RewardFetcher) *Aggregator {
	return &Aggregator{
		rewards: rewards,
		now:     time.Now,
	}
}

// rollup accumulates per-address statistics of one location.
type rollup struct {
	total  float64
	means  []float64
	maxes  []float64
	mins   []float64
	stds   []float64
	ok     int
	failed int
}

// AggregateRegion produces one record per (state, city) leaf of the tree in
// sorted order. Each address is queried over [earliest timestamp_added of its
// city, now] with hourly buckets, where now is captured once per call.
func (a *Aggregator) AggregateRegion(ctx context.Context, tree *LocationTree) ([]models.LocationStats, error) {
	to := a.now().UTC().Format(time.RFC3339)
	results := make([]models.LocationStats, 0)

	for _, state := range tree.States() {
		bucket, _ := tree.State(state)
		for _, city := range bucket.Cities() {
			rows, _ := bucket.City(city)

			stats, err := a.aggregate(ctx, state, city, rows, RegionBucket, to)
			if err != nil {
				return nil, err
			}
			results = append(results, stats)
		}
	}

	return results, nil
}

// AggregateFiltered produces the record of one state or city.
// Without a State or City filter it returns the N/A sentinel record.
func (a *Aggregator) AggregateFiltered(ctx context.Context, tree *LocationTree, f LocationFilter) (models.LocationStats, error) {
	if f.State == "" && f.City == "" {
		return models.NotApplicableStats(), nil
	}

	bucketName := strings.ToLower(f.Bucket)
	if bucketName == "" {
		bucketName = DefaultBucket
	}
	if !validation.IsBucket(bucketName) {
		return models.LocationStats{}, fmt.Errorf("%w: %q", ErrInvalidBucket, f.Bucket)
	}

	maxTime := f.MaxTime
	if maxTime.IsZero() {
		maxTime = a.now()
	}
	to := maxTime.UTC().Format(time.RFC3339)

	state, city, rows, err := resolveLocation(tree, f.State, f.City)
	if err != nil {
		return models.LocationStats{}, err
	}

	return a.aggregate(ctx, state, city, rows, bucketName, to)
}

// resolveLocation finds the rows selected by a state and/or city filter.
// City matching scans states in sorted order and takes the first
// case-insensitive match. A state-only match reports the city as N/A.
func resolveLocation(tree *LocationTree, state, city string) (string, string, []Row, error) {
	if city == "" {
		bucket, ok := tree.State(state)
		if !ok {
			return "", "", nil, fmt.Errorf("%w: state %q in region %s", ErrLocationNotFound, state, tree.Region)
		}
		return state, models.NotApplicable, bucket.Rows, nil
	}

	states := tree.States()
	if state != "" {
		if _, ok := tree.State(state); !ok {
			return "", "", nil, fmt.Errorf("%w: state %q in region %s", ErrLocationNotFound, state, tree.Region)
		}
		states = []string{state}
	}

	for _, s := range states {
		bucket, _ := tree.State(s)
		for _, c := range bucket.Cities() {
			if strings.EqualFold(c, city) {
				rows, _ := bucket.City(c)
				return s, c, rows, nil
			}
		}
	}

	return "", "", nil, fmt.Errorf("%w: city %q in region %s", ErrLocationNotFound, city, tree.Region)
}

// aggregate fetches every address of rows and builds the location record.
func (a *Aggregator) aggregate(ctx context.Context, state, city string, rows []Row, bucket, to string) (models.LocationStats, error) {
	log := logging.Ctx(ctx)

	from, err := earliestTimestamp(rows)
	if err != nil {
		return models.LocationStats{}, fmt.Errorf("location %s, %s: %w", state, city, err)
	}

	log.Info().Str("state", state).Str("city", city).Int("hotspots", len(rows)).Str("bucket", bucket).Msg("Processing location")

	query := helium.RewardQuery{MinTime: from, MaxTime: to, Bucket: bucket}
	var r rollup

	for _, row := range rows {
		address := row.String(models.ColumnAddress)
		if address == "" {
			return models.LocationStats{}, fmt.Errorf("location %s, %s: %w: %s", state, city, ErrMissingField, models.ColumnAddress)
		}

		series, err := a.rewards.RewardStats(ctx, address, query)
		if err != nil {
			if upstream.IsUnavailable(err) {
				log.Warn().Err(err).Str("address", address).Msg("Reward stats unavailable, skipping hotspot")
				metrics.RecordRewardFetch(false)
				r.failed++
				continue
			}
			return models.LocationStats{}, fmt.Errorf("rewards for %s: %w", address, err)
		}
		metrics.RecordRewardFetch(true)

		totals, missing := series.Totals()
		if missing >= 0 {
			return models.LocationStats{}, fmt.Errorf("rewards for %s: %w: total in sample %d", address, ErrMissingField, missing)
		}

		r.add(Summarize(totals))
	}

	metrics.LocationsAggregated.Inc()

	return models.LocationStats{
		State:       state,
		City:        city,
		Bucket:      bucket,
		NumHotspots: r.ok,
		NumFailed:   r.failed,
		TotalHNT:    r.total,
		AvgHNT:      mean(r.means),
		AvgMaxHNT:   mean(r.maxes),
		AvgMinHNT:   mean(r.mins),
		AvgStdHNT:   mean(r.stds),
		MaxOfMax:    maxOf(r.maxes),
		MinOfMin:    minOf(r.mins),
		From:        from,
		To:          to,
	}, nil
}

// add folds one address's summary in. Empty series only count the address.
func (r *rollup) add(s models.Summary) {
	r.ok++
	r.total += s.Sum
	if s.Count == 0 {
		return
	}
	r.means = append(r.means, s.Mean)
	r.maxes = append(r.maxes, s.Max)
	r.mins = append(r.mins, s.Min)
	r.stds = append(r.stds, s.Std)
}

// earliestTimestamp returns the smallest timestamp_added of rows.
// ISO-8601 timestamps of one format order lexically.
func earliestTimestamp(rows []Row) (string, error) {
	earliest := ""
	for _, row := range rows {
		ts := row.String(models.ColumnTimestampAdded)
		if ts == "" {
			continue
		}
		if earliest == "" || ts < earliest {
			earliest = ts
		}
	}
	if earliest == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, models.ColumnTimestampAdded)
	}
	return earliest, nil
}
