package polymarket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

// newTestClient points every candidate endpoint at the given test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{Host: srv.URL, Limit: 10}, nil)
}

func TestFetchMarkets_BareListShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"question":"Will it rain?","outcomes":["Yes","No"]}]`))
	}))

	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("got %d markets, want 1", len(markets))
	}
	if q := markets[0]["question"]; q != "Will it rain?" {
		t.Errorf("question = %v, want %q", q, "Will it rain?")
	}
}

func TestFetchMarkets_EnvelopeShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markets":[{"slug":"a"},{"slug":"b"}]}`))
	}))

	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Errorf("got %d markets, want 2", len(markets))
	}
}

func TestFetchMarkets_RequestHeaders(t *testing.T) {
	var gotAccept, gotUA string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))

	if _, err := c.FetchMarkets(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAccept != "application/json, text/plain, */*" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, defaultUserAgent)
	}
}

func TestFetchMarkets_FallbackOnHTTPError(t *testing.T) {
	// The primary query (active=true) fails; the first fallback
	// (closed=false) succeeds. The third candidate must not be hit.
	var calls []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.RawQuery)
		switch {
		case r.URL.Query().Get("active") == "true":
			http.Error(w, "boom", http.StatusInternalServerError)
		case r.URL.Query().Get("closed") == "false":
			w.Write([]byte(`[{"slug":"ok"}]`))
		default:
			t.Error("last-resort endpoint should not be reached")
			w.Write([]byte(`[]`))
		}
	}))

	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 || markets[0]["slug"] != "ok" {
		t.Errorf("markets = %v, want the fallback payload", markets)
	}
	if len(calls) != 2 {
		t.Errorf("made %d requests, want 2 (short-circuit after first success)", len(calls))
	}
}

func TestFetchMarkets_FallbackOnBadShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("active") == "true":
			// Object without a markets list is unusable.
			w.Write([]byte(`{"data":[]}`))
		case r.URL.Query().Get("closed") == "false":
			// Markets field that is not a list is unusable too.
			w.Write([]byte(`{"markets":null}`))
		default:
			w.Write([]byte(`[{"slug":"ok"}]`))
		}
	}))

	markets, err := c.FetchMarkets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 || markets[0]["slug"] != "ok" {
		t.Errorf("markets = %v, want the last-resort payload", markets)
	}
}

func TestFetchMarkets_AllEndpointsFail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	_, err := c.FetchMarkets(context.Background())
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %T (%v), want *domain.FetchError", err, err)
	}
	if fetchErr.Last == nil {
		t.Error("FetchError should carry the last underlying error")
	}
}

func TestFetchMarkets_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewClient(ClientConfig{Host: srv.URL}, nil)
	_, err := c.FetchMarkets(context.Background())
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("got %T (%v), want *domain.FetchError", err, err)
	}
}

func TestDecodeMarkets_EmptyList(t *testing.T) {
	markets, err := decodeMarkets([]byte(`{"markets":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if markets == nil || len(markets) != 0 {
		t.Errorf("markets = %v, want usable empty list", markets)
	}
}

func TestDecodeMarkets_UnrecognizedShape(t *testing.T) {
	for _, body := range []string{`"just a string"`, `42`, ``, `not json`} {
		if _, err := decodeMarkets([]byte(body)); err == nil {
			t.Errorf("decodeMarkets(%q) should fail", body)
		}
	}
}
