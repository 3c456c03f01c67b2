// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

// Package upstream performs the HTTP GETs every helium-analytics client shares.
//
// A Requester owns one *http.Client, one request pacer and one circuit breaker
// per upstream name. It performs no retries: a failed request is reported once
// and the caller decides whether to truncate, skip or abort.
//
// Error classes:
//   - ErrUnavailable: network failure, non-2xx status (*StatusError) or open breaker
//   - ErrMalformedResponse: a 2xx body that is not the expected JSON
//   - context errors: returned unwrapped from classification, never "unavailable"
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/grahambryan/helium-analytics/internal/config"
	"github.com/grahambryan/helium-analytics/internal/logging"
	"github.com/grahambryan/helium-analytics/internal/metrics"
)

// maxErrorBodySize caps how much of a failed response body is kept (64KB).
const maxErrorBodySize = 64 * 1024

// Request describes one GET against an upstream.
type Request struct {
	Upstream string     // breaker and metrics name, e.g. "helium"
	Endpoint string     // metrics label, e.g. "rewards"
	URL      string     // full endpoint URL without query
	Params   url.Values // query parameters, may be nil

	// BypassBreaker sends the request outside the upstream's circuit breaker.
	// Set for per-item lookups, where one item's failure says nothing about
	// the next item.
	BypassBreaker bool
}

// Requester performs paced, breaker-guarded HTTP GETs.
//
// Thread Safety: a Requester may be shared; breakers are created under a mutex
// and the limiter and http.Client are safe for concurrent use.
type Requester struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     config.HTTPConfig
	log     zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// NewRequester creates a Requester from HTTP configuration.
func NewRequester(cfg *config.HTTPConfig) *Requester {
	return &Requester{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:      *cfg,
		log:      logging.WithComponent("upstream"),
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte]),
	}
}

// Get performs the request and returns the raw 2xx body.
func (r *Requester) Get(ctx context.Context, req Request) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s request not sent: %w", req.Upstream, err)
	}

	reqURL := buildURL(req.URL, req.Params)
	start := time.Now()

	var status int
	send := func() ([]byte, error) {
		b, code, doErr := r.do(ctx, req.Upstream, reqURL)
		status = code
		return b, doErr
	}

	var body []byte
	var err error
	if req.BypassBreaker {
		body, err = send()
	} else {
		body, err = r.execute(req.Upstream, send)
	}

	metrics.RecordUpstreamRequest(req.Upstream, req.Endpoint, statusLabel(status, err), time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return body, nil
}

// do executes one HTTP GET and reads the whole body.
// The returned status is 0 when no response was received.
func (r *Requester) do(ctx context.Context, upstream, reqURL string) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create %s request failed: %w", upstream, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, fmt.Errorf("%s request failed: %w: %w", upstream, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{
			Upstream:   upstream,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, resp.StatusCode, ctx.Err()
		}
		return nil, resp.StatusCode, fmt.Errorf("%s read body failed: %w: %w", upstream, ErrUnavailable, err)
	}
	return body, resp.StatusCode, nil
}

// GetJSON performs the request and decodes the 2xx body into a new T.
func GetJSON[T any](ctx context.Context, r *Requester, req Request) (*T, error) {
	body, err := r.Get(ctx, req)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s %s response: %w: %w", req.Upstream, req.Endpoint, ErrMalformedResponse, err)
	}
	return &result, nil
}

// buildURL appends encoded params to base.
func buildURL(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// statusLabel derives the metrics status label for a finished request.
func statusLabel(status int, err error) string {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "rejected"
	}
	if status != 0 {
		return strconv.Itoa(status)
	}
	return "error"
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
