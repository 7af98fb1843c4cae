package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/supplierlens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted Firecrawl API
const DefaultBaseURL = "https://api.firecrawl.dev"

// maxResponseBytes bounds how much of a scraped page is read into memory
const maxResponseBytes = 8 << 20

// Client handles communication with the Firecrawl scraping and search API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// ScrapeResult is the rendered content of one page
type ScrapeResult struct {
	Markdown string         `json:"markdown"`
	HTML     string         `json:"html"`
	Metadata ScrapeMetadata `json:"metadata"`
}

// ScrapeMetadata carries page-level information returned with a scrape
type ScrapeMetadata struct {
	Title      string `json:"title"`
	SourceURL  string `json:"sourceURL"`
	StatusCode int    `json:"statusCode"`
}

// SearchHit is one web search result
type SearchHit struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown,omitempty"`
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	WaitFor         int      `json:"waitFor,omitempty"`
}

type scrapeResponse struct {
	Success bool         `json:"success"`
	Data    ScrapeResult `json:"data"`
	Error   string       `json:"error,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Success bool        `json:"success"`
	Data    []SearchHit `json:"data"`
	Error   string      `json:"error,omitempty"`
}

// NewClient creates a new Firecrawl API client
func NewClient(apiKey, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	// Hosted plans allow a handful of concurrent scrapes; stay well under that
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     strings.TrimRight(baseURL, "/"),
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

// Scrape renders a page and returns its markdown
func (c *Client) Scrape(ctx context.Context, pageURL string) (*ScrapeResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: firecrawl API key missing", domain.ErrSourceNotConfigured)
	}

	c.debugLog("scrape", "url", pageURL)

	var out scrapeResponse
	err := c.post(ctx, "/v1/scrape", scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         3000,
	}, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: firecrawl scrape: %s", domain.ErrSourceFailure, out.Error)
	}

	return &out.Data, nil
}

// Search runs a web search and returns at most limit hits
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: firecrawl API key missing", domain.ErrSourceNotConfigured)
	}
	if limit <= 0 {
		limit = 10
	}

	c.debugLog("search", "query", query, "limit", limit)

	var out searchResponse
	if err := c.post(ctx, "/v1/search", searchRequest{Query: query, Limit: limit}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: firecrawl search: %s", domain.ErrSourceFailure, out.Error)
	}

	return out.Data, nil
}

// post sends a JSON request and decodes a JSON response into out
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SupplierLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", domain.ErrSourceFailure, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.debugLog("upstream error", "path", path, "status", resp.StatusCode, "body", summarize(respBody))
		return fmt.Errorf("%w: firecrawl %s status %d", domain.ErrUpstreamStatus, path, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) debugLog(msg string, args ...any) {
	if c.debug {
		slog.Debug("[firecrawl] "+msg, args...)
	}
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func summarize(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
