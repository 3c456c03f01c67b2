// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grahambryan/helium-analytics/internal/helium"
	"github.com/grahambryan/helium-analytics/internal/logging"
	"github.com/grahambryan/helium-analytics/internal/metrics"
	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
	"github.com/grahambryan/helium-analytics/internal/validation"
)

// DefaultMinDate is the report window start when none is given.
const DefaultMinDate = "12/01/16"

// PriceQuoter returns the current spot price of the reward token.
type PriceQuoter interface {
	SpotPrice(ctx context.Context) (decimal.Decimal, error)
}

// ReportQuery selects one hotspot and its reporting window.
// Dates use the mm/dd/yy format. Empty fields take defaults.
type ReportQuery struct {
	Address string `validate:"required"`
	MinTime string `validate:"omitempty,mmddyy"`
	MaxTime string `validate:"omitempty,mmddyy"`
	Bucket  string `validate:"omitempty,bucket"`
}

// Reporter builds single-hotspot reports valued at the spot price.
type Reporter struct {
	rewards RewardFetcher
	prices  PriceQuoter
	now     func() time.Time
}

// NewReporter creates a Reporter.
func NewReporter(rewards RewardFetcher, prices PriceQuoter) *Reporter {
	return &Reporter{
		rewards: rewards,
		prices:  prices,
		now:     time.Now,
	}
}

// Report summarizes one hotspot's rewards over the query window and values
// the total at the current spot price.
//
// When either the reward series or the price is unavailable the report is
// skipped and Report returns nil with a nil error.
func (r *Reporter) Report(ctx context.Context, q ReportQuery) (*models.HotspotReport, error) {
	if err := validation.ValidateStruct(q); err != nil {
		return nil, err
	}

	log := logging.Ctx(ctx).With().Str("address", q.Address).Logger()

	if q.MinTime == "" {
		q.MinTime = DefaultMinDate
	}
	if q.MaxTime == "" {
		q.MaxTime = r.now().UTC().Format(validation.DateLayout)
	}
	bucket := strings.ToLower(q.Bucket)
	if bucket == "" {
		bucket = DefaultBucket
	}

	minTime, err := validation.ParseDate(q.MinTime)
	if err != nil {
		return nil, err
	}
	maxTime, err := validation.ParseDate(q.MaxTime)
	if err != nil {
		return nil, err
	}
	to := maxTime.Format(time.RFC3339)

	series, err := r.rewards.RewardStats(ctx, q.Address, helium.RewardQuery{
		MinTime: minTime.Format(time.RFC3339),
		MaxTime: to,
		Bucket:  bucket,
	})
	if err != nil {
		if upstream.IsUnavailable(err) {
			log.Warn().Err(err).Msg("Reward stats unavailable, skipping report")
			metrics.RecordRewardFetch(false)
			return nil, nil
		}
		return nil, fmt.Errorf("rewards for %s: %w", q.Address, err)
	}
	metrics.RecordRewardFetch(true)

	totals, missing := series.Totals()
	if missing >= 0 {
		return nil, fmt.Errorf("rewards for %s: %w: total in sample %d", q.Address, ErrMissingField, missing)
	}
	summary := Summarize(totals)

	price, err := r.prices.SpotPrice(ctx)
	if err != nil {
		if upstream.IsUnavailable(err) {
			log.Warn().Err(err).Msg("Spot price unavailable, skipping report")
			return nil, nil
		}
		return nil, fmt.Errorf("spot price: %w", err)
	}

	from := series.Meta.MinTime
	if from == "" {
		from = minTime.Format(time.RFC3339)
	}

	report := &models.HotspotReport{
		Address:     q.Address,
		Bucket:      bucket,
		TotalHNT:    summary.Sum,
		AvgHNT:      summary.Mean,
		AvgMaxHNT:   summary.Max,
		AvgMinHNT:   summary.Min,
		AvgStdHNT:   summary.Std,
		MaxOfMax:    summary.Max,
		MinOfMin:    summary.Min,
		From:        from,
		To:          to,
		HNTUSDPrice: price.InexactFloat64(),
		TotalUSD:    price.Mul(decimal.NewFromFloat(summary.Sum)).InexactFloat64(),
	}

	log.Info().Float64("total_hnt", report.TotalHNT).Float64("total_usd", report.TotalUSD).Msg("Hotspot report ready")
	return report, nil
}
