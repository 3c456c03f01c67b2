// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package pricing fetches spot prices from a CoinGecko-compatible simple price endpoint.
//
//	GET {url}?ids=helium&vs_currencies=usd  ->  {"helium": {"usd": 7.31}}
//
// Prices are returned as decimal.Decimal so valuations do not pick up
// binary floating point error.
package pricing

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/grahambryan/helium-analytics/internal/upstream"
)

// Upstream is the breaker and metrics name of the price API.
const Upstream = "pricing"

// Client looks up the spot price of one asset in one quote currency.
type Client struct {
	url       string
	assetID   string
	currency  string
	requester *upstream.Requester
}

// NewClient creates a price client for assetID quoted in currency.
func NewClient(priceURL, assetID, currency string, requester *upstream.Requester) *Client {
	return &Client{
		url:       priceURL,
		assetID:   assetID,
		currency:  currency,
		requester: requester,
	}
}

// Currency returns the quote currency code.
func (c *Client) Currency() string {
	return c.currency
}

// SpotPrice returns the current price of the configured asset.
func (c *Client) SpotPrice(ctx context.Context) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("ids", c.assetID)
	params.Set("vs_currencies", c.currency)

	resp, err := upstream.GetJSON[map[string]map[string]decimal.Decimal](ctx, c.requester, upstream.Request{
		Upstream: Upstream,
		Endpoint: "simple_price",
		URL:      c.url,
		Params:   params,
	})
	if err != nil {
		return decimal.Zero, err
	}

	quotes, ok := (*resp)[c.assetID]
	if !ok {
		return decimal.Zero, fmt.Errorf("price for %s: %w: asset missing", c.assetID, upstream.ErrMalformedResponse)
	}
	price, ok := quotes[c.currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("price for %s: %w: currency %s missing", c.assetID, upstream.ErrMalformedResponse, c.currency)
	}
	return price, nil
}
