// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

/*
Package helium is the client for the public Helium hotspot API.

Endpoints:
  - GET {base}                          hotspot listing, optional cursor param
  - GET {base}/{address}/rewards/stats  reward buckets with min_time, max_time, bucket

The base URL is the listing endpoint itself (default https://api.helium.io/v1/hotspots).
All requests go through an upstream.Requester, so pacing, circuit breaking and
error classification are shared with the other clients. The client never retries.
*/
package helium

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/grahambryan/helium-analytics/internal/models"
	"github.com/grahambryan/helium-analytics/internal/upstream"
)

// Upstream is the breaker and metrics name of the Helium API.
const Upstream = "helium"

// RewardQuery selects the window and bucket size of a reward series.
// MinTime and MaxTime are sent verbatim; callers pass ISO-8601 strings.
type RewardQuery struct {
	MinTime string
	MaxTime string
	Bucket  string
}

// Client talks to the Helium hotspot API.
type Client struct {
	baseURL   string
	requester *upstream.Requester
}

// NewClient creates a Helium API client rooted at the hotspot listing URL.
func NewClient(baseURL string, requester *upstream.Requester) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		requester: requester,
	}
}

// listingResponse is the wire shape of a listing page.
type listingResponse struct {
	Data   *[]map[string]any `json:"data"`
	Cursor string            `json:"cursor"`
}

// ListHotspots fetches one listing page. An empty cursor requests the first page.
func (c *Client) ListHotspots(ctx context.Context, cursor string) (*models.Page, error) {
	var params url.Values
	if cursor != "" {
		params = url.Values{"cursor": []string{cursor}}
	}

	resp, err := upstream.GetJSON[listingResponse](ctx, c.requester, upstream.Request{
		Upstream: Upstream,
		Endpoint: "hotspots",
		URL:      c.baseURL,
		Params:   params,
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("hotspot listing: %w: missing data field", upstream.ErrMalformedResponse)
	}

	return &models.Page{Data: *resp.Data, Cursor: resp.Cursor}, nil
}

// rewardsResponse is the wire shape of a rewards/stats response.
type rewardsResponse struct {
	Data *[]models.RewardSample `json:"data"`
	Meta models.RewardMeta      `json:"meta"`
}

// RewardStats fetches the reward series of one hotspot.
func (c *Client) RewardStats(ctx context.Context, address string, q RewardQuery) (*models.RewardSeries, error) {
	params := url.Values{}
	params.Set("max_time", q.MaxTime)
	params.Set("min_time", q.MinTime)
	params.Set("bucket", strings.ToLower(q.Bucket))

	resp, err := upstream.GetJSON[rewardsResponse](ctx, c.requester, upstream.Request{
		Upstream: Upstream,
		Endpoint: "rewards",
		URL:      c.rewardsURL(address),
		Params:   params,

		BypassBreaker: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("rewards for %s: %w: missing data field", address, upstream.ErrMalformedResponse)
	}

	return &models.RewardSeries{Data: *resp.Data, Meta: resp.Meta}, nil
}

func (c *Client) rewardsURL(address string) string {
	return c.baseURL + "/" + url.PathEscape(address) + "/rewards/stats"
}
