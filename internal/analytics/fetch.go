// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"context"
	"fmt"

	"github.com/grahambryan/helium-analytics/internal/logging"
	"github.com/grahambryan/helium-analytics/internal/metrics"
	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
)

// HotspotLister returns one page of the hotspot listing.
// An empty cursor requests the first page.
type HotspotLister interface {
	ListHotspots(ctx context.Context, cursor string) (*models.Page, error)
}

// Pagination stop reasons recorded in metrics.
const (
	stopNoCursor    = "no_cursor"
	stopMaxPages    = "max_pages"
	stopUnavailable = "unavailable"
)

// FetchPages collects listing pages in fetch order.
//
// The first page is always kept. Each follow-up response is kept only if it
// carries a cursor of its own, so the final cursorless page is dropped.
// Pagination also stops once maxPages pages are held; the cap is checked
// before the next request is sent.
//
// A transport failure ends pagination and returns what was collected so far,
// which is empty when the first request fails. Decode failures and context
// cancellation are returned as errors.
func FetchPages(ctx context.Context, lister HotspotLister, maxPages int) ([]models.Page, error) {
	if maxPages < 1 {
		return nil, fmt.Errorf("max pages must be at least 1, got %d", maxPages)
	}

	log := logging.Ctx(ctx)

	first, err := lister.ListHotspots(ctx, "")
	if err != nil {
		if upstream.IsUnavailable(err) {
			log.Warn().Err(err).Msg("Hotspot listing unavailable, no pages collected")
			metrics.RecordPaginationStop(stopUnavailable, 0)
			return []models.Page{}, nil
		}
		return nil, fmt.Errorf("fetch first listing page: %w", err)
	}

	pages := []models.Page{*first}
	if !first.HasCursor() {
		metrics.RecordPaginationStop(stopNoCursor, len(pages))
		return pages, nil
	}

	cursor := first.Cursor
	reason := stopMaxPages
	for len(pages) < maxPages {
		page, err := lister.ListHotspots(ctx, cursor)
		if err != nil {
			if upstream.IsUnavailable(err) {
				log.Warn().Err(err).Int("pages", len(pages)).Msg("Hotspot listing unavailable, stopping pagination")
				reason = stopUnavailable
				break
			}
			return nil, fmt.Errorf("fetch listing page %d: %w", len(pages)+1, err)
		}

		if !page.HasCursor() {
			reason = stopNoCursor
			break
		}

		pages = append(pages, *page)
		cursor = page.Cursor
	}

	log.Debug().Int("pages", len(pages)).Str("reason", reason).Msg("Pagination finished")
	metrics.RecordPaginationStop(reason, len(pages))
	return pages, nil
}
