package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/supplierlens/backend/internal/domain"
)

const (
	// Platform labels listings that come from the local catalog
	Platform = "Catalog"

	similarity = 0.95
	maxItems   = 20
)

// Store is a closable listing catalog
type Store interface {
	domain.ListingStore
	Close() error
}

// Fetcher serves previously imported supplier listings. It runs on every
// search and needs a title to match against.
type Fetcher struct {
	store domain.ListingStore
}

// NewFetcher creates a new catalog fetcher
func NewFetcher(store domain.ListingStore) *Fetcher {
	return &Fetcher{store: store}
}

// Name returns the source label
func (f *Fetcher) Name() string {
	return Platform
}

// Capabilities marks the catalog as always consulted
func (f *Fetcher) Capabilities() domain.Capability {
	return domain.CapabilityCatalog
}

// Fetch looks the title up in the catalog. A query without a title yields
// an empty slice.
func (f *Fetcher) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if f.store == nil {
		return nil, fmt.Errorf("%w: catalog", domain.ErrSourceNotConfigured)
	}

	title := strings.TrimSpace(query.Title)
	if title == "" {
		return []domain.RawListing{}, nil
	}

	matches, err := f.store.SearchListings(ctx, title, maxItems)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	listings := make([]domain.RawListing, 0, len(matches))
	for _, m := range matches {
		listings = append(listings, domain.RawListing{
			Platform:   Platform,
			Title:      m.Title,
			Price:      m.Price,
			Currency:   m.Currency,
			URL:        m.SupplierURL,
			ImageURL:   m.ImageURL,
			SellerName: m.SupplierName,
			Similarity: similarity,
		})
	}
	return listings, nil
}
