// Helium Analytics - Hotspot Reward Statistics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grahambryan/helium-analytics

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/grahambryan/helium-analytics/internal/config"
)

// testHTTPConfig returns fast settings with a breaker that trips after 3 requests.
func testHTTPConfig() *config.HTTPConfig {
	return &config.HTTPConfig{
		Timeout:             5 * time.Second,
		RequestsPerSecond:   1000,
		Burst:               10,
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      time.Minute,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
	}
}

type greeting struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func TestGetJSON_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.URL.Query().Get("cursor"); got != "abc" {
			t.Errorf("cursor param = %q, want abc", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hello","count":3}`))
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	got, err := GetJSON[greeting](context.Background(), r, Request{
		Upstream: "test",
		Endpoint: "greeting",
		URL:      server.URL,
		Params:   url.Values{"cursor": []string{"abc"}},
	})
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Message != "hello" || got.Count != 3 {
		t.Errorf("GetJSON() = %+v, want {hello 3}", got)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	_, err := GetJSON[greeting](context.Background(), r, Request{Upstream: "test", Endpoint: "greeting", URL: server.URL})
	if err == nil {
		t.Fatal("GetJSON() expected error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "maintenance") {
		t.Errorf("error = %q, want body excerpt", err.Error())
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable() = false for status error, want true")
	}
}

func TestGetJSON_MalformedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "unterminated`))
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	_, err := GetJSON[greeting](context.Background(), r, Request{Upstream: "test", Endpoint: "greeting", URL: server.URL})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
	if IsUnavailable(err) {
		t.Error("IsUnavailable() = true for malformed response, want false")
	}
}

func TestGetJSON_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	r := NewRequester(testHTTPConfig())
	_, err := GetJSON[greeting](context.Background(), r, Request{Upstream: "test", Endpoint: "greeting", URL: serverURL})
	if !IsUnavailable(err) {
		t.Fatalf("IsUnavailable(%v) = false, want true", err)
	}
}

func TestGetJSON_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRequester(testHTTPConfig())
	_, err := GetJSON[greeting](ctx, r, Request{Upstream: "test", Endpoint: "greeting", URL: server.URL})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if IsUnavailable(err) {
		t.Error("IsUnavailable() = true for cancellation, want false")
	}
}

func TestRequester_BreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	req := Request{Upstream: "flaky", Endpoint: "greeting", URL: server.URL}

	for i := 0; i < 3; i++ {
		if _, err := r.Get(context.Background(), req); !IsUnavailable(err) {
			t.Fatalf("request %d: IsUnavailable(%v) = false, want true", i, err)
		}
	}

	_, err := r.Get(context.Background(), req)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("error = %v, want gobreaker.ErrOpenState", err)
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable() = false for rejected request, want true")
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3", got)
	}
}

func TestRequester_BypassBreakerSendsEveryRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 5 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"message":"back"}`))
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	guarded := Request{Upstream: "items", Endpoint: "greeting", URL: server.URL}
	perItem := guarded
	perItem.BypassBreaker = true

	for i := 0; i < 5; i++ {
		if _, err := r.Get(context.Background(), perItem); !IsUnavailable(err) {
			t.Fatalf("request %d: IsUnavailable(%v) = false, want true", i, err)
		}
	}

	got, err := GetJSON[greeting](context.Background(), r, perItem)
	if err != nil {
		t.Fatalf("GetJSON() after failures error = %v", err)
	}
	if got.Message != "back" {
		t.Errorf("Message = %q, want back", got.Message)
	}
	if n := hits.Load(); n != 6 {
		t.Errorf("server hits = %d, want 6", n)
	}

	// Bypassed failures are not counted against the shared breaker.
	if _, err := r.Get(context.Background(), guarded); err != nil {
		t.Errorf("guarded Get() error = %v, want breaker still closed", err)
	}
}

func TestRequester_ClientErrorsKeepBreakerClosed(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 5 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"message":"found"}`))
	}))
	defer server.Close()

	r := NewRequester(testHTTPConfig())
	req := Request{Upstream: "lookup", Endpoint: "greeting", URL: server.URL}

	for i := 0; i < 5; i++ {
		if _, err := r.Get(context.Background(), req); err == nil {
			t.Fatalf("request %d: expected 404 error", i)
		}
	}

	got, err := GetJSON[greeting](context.Background(), r, req)
	if err != nil {
		t.Fatalf("GetJSON() after 404s error = %v, want breaker still closed", err)
	}
	if got.Message != "found" {
		t.Errorf("Message = %q, want found", got.Message)
	}
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		params url.Values
		want   string
	}{
		{"no params", "https://api.helium.io/v1/hotspots", nil, "https://api.helium.io/v1/hotspots"},
		{"encoded params", "https://example.com/price", url.Values{"ids": {"helium"}, "vs_currencies": {"usd"}}, "https://example.com/price?ids=helium&vs_currencies=usd"},
		{"escaped time", "https://example.com/x", url.Values{"max_time": {"2021-06-01T00:00:00Z"}}, "https://example.com/x?max_time=2021-06-01T00%3A00%3A00Z"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := buildURL(tt.base, tt.params); got != tt.want {
				t.Errorf("buildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadBodyForError_Truncates(t *testing.T) {
	t.Parallel()

	body := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+100)))
	if !strings.HasSuffix(string(body), "... (truncated)") {
		t.Errorf("expected truncation marker, got suffix %q", string(body[len(body)-20:]))
	}

	short := readBodyForError(strings.NewReader("bad request"))
	if string(short) != "bad request" {
		t.Errorf("readBodyForError() = %q, want 'bad request'", short)
	}
}

func TestIsUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"status error", &StatusError{Upstream: "x", StatusCode: 502}, true},
		{"wrapped unavailable", errors.Join(errors.New("ctx"), ErrUnavailable), true},
		{"canceled wins", errors.Join(context.Canceled, ErrUnavailable), false},
		{"malformed", ErrMalformedResponse, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsUnavailable(tt.err); got != tt.want {
				t.Errorf("IsUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
