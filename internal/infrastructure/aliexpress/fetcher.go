package aliexpress

import (
	"context"
	"fmt"

	"github.com/supplierlens/backend/internal/domain"
)

// maxItems bounds how many API hits become listings
const maxItems = 10

// Fetcher searches the AliExpress catalog by keyword
type Fetcher struct {
	client *Client
}

// NewFetcher wraps a client as a supplier source
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Name returns the platform label
func (f *Fetcher) Name() string {
	return Platform
}

// Capabilities reports keyword search only
func (f *Fetcher) Capabilities() domain.Capability {
	return domain.CapabilityTextSearch
}

// Fetch returns up to maxItems listings; without an API key it returns immediately
func (f *Fetcher) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if !f.client.Configured() {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotConfigured, Platform)
	}

	terms := query.SearchTerms()
	if terms == "" {
		return nil, domain.ErrNoQueryTerms
	}

	resp, err := f.client.SearchItems(ctx, terms)
	if err != nil {
		return nil, err
	}

	items := resp.Result.ResultList
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	listings := make([]domain.RawListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, MapToRawListing(item, resp.Result.Settings.Currency))
	}
	return listings, nil
}
