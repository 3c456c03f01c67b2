// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package analytics

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
)

func TestFetchPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pages       []*models.Page
		errs        map[int]error
		maxPages    int
		wantAddrs   []string
		wantCursors []string
	}{
		{
			name: "final cursorless page is dropped",
			pages: []*models.Page{
				pageWithCursor("c1", "a1"),
				pageWithCursor("c2", "a2"),
				pageWithCursor("", "a3"),
			},
			maxPages:    10,
			wantAddrs:   []string{"a1", "a2"},
			wantCursors: []string{"", "c1", "c2"},
		},
		{
			name:        "first page without cursor is returned alone",
			pages:       []*models.Page{pageWithCursor("", "a1", "a2")},
			maxPages:    10,
			wantAddrs:   []string{"a1", "a2"},
			wantCursors: []string{""},
		},
		{
			name: "page cap stops before the next request",
			pages: []*models.Page{
				pageWithCursor("c1", "a1"),
				pageWithCursor("c2", "a2"),
				pageWithCursor("c3", "a3"),
				pageWithCursor("c4", "a4"),
			},
			maxPages:    2,
			wantAddrs:   []string{"a1", "a2"},
			wantCursors: []string{"", "c1"},
		},
		{
			name:        "cap of one makes a single request",
			pages:       []*models.Page{pageWithCursor("c1", "a1"), pageWithCursor("c2", "a2")},
			maxPages:    1,
			wantAddrs:   []string{"a1"},
			wantCursors: []string{""},
		},
		{
			name:        "first request unavailable yields no pages",
			errs:        map[int]error{0: errUnavailable},
			maxPages:    10,
			wantAddrs:   nil,
			wantCursors: []string{""},
		},
		{
			name: "mid-pagination failure keeps collected pages",
			pages: []*models.Page{
				pageWithCursor("c1", "a1"),
				pageWithCursor("c2", "a2"),
				pageWithCursor("c3", "a3"),
			},
			errs:        map[int]error{2: fmt.Errorf("%w: connection reset", upstream.ErrUnavailable)},
			maxPages:    10,
			wantAddrs:   []string{"a1", "a2"},
			wantCursors: []string{"", "c1", "c2"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lister := &fakeLister{pages: tt.pages, errs: tt.errs}
			pages, err := FetchPages(context.Background(), lister, tt.maxPages)
			if err != nil {
				t.Fatalf("FetchPages() error = %v", err)
			}
			if pages == nil {
				t.Fatal("FetchPages() = nil, want non-nil slice")
			}
			if got := pageAddresses(pages); !reflect.DeepEqual(got, tt.wantAddrs) {
				t.Errorf("addresses = %v, want %v", got, tt.wantAddrs)
			}
			if !reflect.DeepEqual(lister.cursors, tt.wantCursors) {
				t.Errorf("cursors requested = %v, want %v", lister.cursors, tt.wantCursors)
			}
		})
	}
}

func TestFetchPagesPageCount(t *testing.T) {
	t.Parallel()

	// N pages served, the last without a cursor: N-1 are kept.
	for n := 1; n <= 5; n++ {
		pages := make([]*models.Page, n)
		for i := 0; i < n; i++ {
			cursor := fmt.Sprintf("c%d", i+1)
			if i == n-1 {
				cursor = ""
			}
			pages[i] = pageWithCursor(cursor, fmt.Sprintf("a%d", i))
		}

		got, err := FetchPages(context.Background(), &fakeLister{pages: pages}, 100)
		if err != nil {
			t.Fatalf("FetchPages(n=%d) error = %v", n, err)
		}
		want := n - 1
		if n == 1 {
			want = 1
		}
		if len(got) != want {
			t.Errorf("FetchPages(n=%d) len = %d, want %d", n, len(got), want)
		}
	}
}

func TestFetchPagesErrors(t *testing.T) {
	t.Parallel()

	t.Run("malformed response propagates", func(t *testing.T) {
		t.Parallel()

		lister := &fakeLister{
			pages: []*models.Page{pageWithCursor("c1", "a1")},
			errs:  map[int]error{1: fmt.Errorf("decode: %w", upstream.ErrMalformedResponse)},
		}
		_, err := FetchPages(context.Background(), lister, 10)
		if !errors.Is(err, upstream.ErrMalformedResponse) {
			t.Errorf("FetchPages() error = %v, want ErrMalformedResponse", err)
		}
	})

	t.Run("canceled context propagates", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := FetchPages(ctx, &fakeLister{}, 10)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("FetchPages() error = %v, want context.Canceled", err)
		}
	})

	t.Run("invalid page cap", func(t *testing.T) {
		t.Parallel()

		lister := &fakeLister{}
		if _, err := FetchPages(context.Background(), lister, 0); err == nil {
			t.Error("FetchPages(maxPages=0) error = nil, want error")
		}
		if len(lister.cursors) != 0 {
			t.Errorf("requests = %d, want 0", len(lister.cursors))
		}
	})
}
