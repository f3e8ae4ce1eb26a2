// Package polymarket implements the REST client for the Polymarket Gamma
// API, which provides market discovery and metadata.
package polymarket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

const (
	defaultHost      = "https://gamma-api.polymarket.com"
	defaultLimit     = 1000
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; PolysheetExporter/1.0)"

	acceptHeader = "application/json, text/plain, */*"
)

// ClientConfig holds the Gamma API connection parameters. Zero values fall
// back to the stock endpoint settings.
type ClientConfig struct {
	// Host is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
	Host      string
	Limit     int
	Timeout   time.Duration
	UserAgent string
}

// Client is the REST client for the Gamma API markets listing. A single
// logical fetch tries several query-parameter variants of the markets
// endpoint in priority order, because the accepted filter params have
// changed across API revisions.
type Client struct {
	endpoints  []string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Gamma API client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoints: []string{
			// Primary.
			fmt.Sprintf("%s/markets?limit=%d&active=true", cfg.Host, cfg.Limit),
			// Fallbacks, in case the primary query params change.
			fmt.Sprintf("%s/markets?limit=%d&closed=false", cfg.Host, cfg.Limit),
			fmt.Sprintf("%s/markets?limit=%d", cfg.Host, cfg.Limit),
		},
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With(slog.String("component", "gamma")),
	}
}

// FetchMarkets tries each candidate endpoint in order and returns the first
// usable market list. Each endpoint is tried at most once; any network
// error, non-2xx status, decode error, or unrecognized response shape moves
// on to the next candidate. When every endpoint fails the returned error is
// a *domain.FetchError wrapping the last failure.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.RawMarket, error) {
	var lastErr error
	for _, endpoint := range c.endpoints {
		markets, err := c.fetchOne(ctx, endpoint)
		if err != nil {
			c.logger.DebugContext(ctx, "endpoint failed, trying next",
				slog.String("url", endpoint),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}
		return markets, nil
	}
	return nil, &domain.FetchError{Last: lastErr}
}

// fetchOne performs a single GET against one candidate endpoint.
func (c *Client) fetchOne(ctx context.Context, url string) ([]domain.RawMarket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(body, 200))
	}

	markets, err := decodeMarkets(body)
	if err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return markets, nil
}

// decodeMarkets normalizes the two top-level response shapes the Gamma API
// has been observed to return: an object with a list-valued "markets" field,
// or directly a list of market objects.
func decodeMarkets(body []byte) ([]domain.RawMarket, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		raw, ok := envelope["markets"]
		if !ok {
			return nil, fmt.Errorf("object response has no markets field")
		}
		var markets []domain.RawMarket
		if err := json.Unmarshal(raw, &markets); err != nil {
			return nil, fmt.Errorf("markets field is not a list: %w", err)
		}
		if markets == nil {
			// "markets": null is not a usable list.
			return nil, fmt.Errorf("markets field is not a list")
		}
		return markets, nil
	case '[':
		var markets []domain.RawMarket
		if err := json.Unmarshal(trimmed, &markets); err != nil {
			return nil, err
		}
		return markets, nil
	default:
		return nil, fmt.Errorf("unrecognized response shape")
	}
}

// truncate bounds error-message bodies so a huge HTML error page does not
// flood the logs.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
