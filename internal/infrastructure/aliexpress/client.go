package aliexpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/supplierlens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the RapidAPI host serving AliExpress catalog data
const DefaultBaseURL = "https://aliexpress-datahub.p.rapidapi.com"

// Client handles communication with the AliExpress catalog API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	host        string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new AliExpress API client
func NewClient(apiKey, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	// Basic RapidAPI plans allow about 5 requests per second
	limiter := rate.NewLimiter(rate.Limit(5), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     baseURL,
		host:        host,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Configured reports whether an API key is available
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// SearchItems searches the AliExpress catalog for a keyword query
func (c *Client) SearchItems(ctx context.Context, query string) (*SearchResponse, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: aliexpress API key missing", domain.ErrSourceNotConfigured)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("page", "1")
	params.Add("sort", "priceAsc")
	reqURL := fmt.Sprintf("%s/item_search_2?%s", c.baseURL, params.Encode())

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("User-Agent", "SupplierLens/1.0")

	if c.debug {
		slog.Debug("[aliexpress] search", "query", query)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.debug {
			slog.Debug("[aliexpress] API error", "status", resp.StatusCode, "body", string(body))
		}
		return nil, fmt.Errorf("%w: aliexpress status %d", domain.ErrUpstreamStatus, resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &searchResp, nil
}
