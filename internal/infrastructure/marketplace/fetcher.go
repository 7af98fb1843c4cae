package marketplace

import (
	"context"
	"fmt"

	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/infrastructure/firecrawl"
)

// PageScraper renders a web page; satisfied by *firecrawl.Client
type PageScraper interface {
	Configured() bool
	Scrape(ctx context.Context, pageURL string) (*firecrawl.ScrapeResult, error)
}

// Source describes one scraped marketplace
type Source struct {
	Name             string
	SearchURL        func(terms string) string
	Rules            Rules
	Currency         string
	ShippingEstimate string
	Similarity       float64
	MaxItems         int
}

// ScrapeFetcher finds listings by scraping a marketplace's search results page
type ScrapeFetcher struct {
	source  Source
	scraper PageScraper
}

// NewScrapeFetcher creates a fetcher for source backed by scraper
func NewScrapeFetcher(source Source, scraper PageScraper) *ScrapeFetcher {
	if source.MaxItems <= 0 {
		source.MaxItems = 8
	}
	return &ScrapeFetcher{source: source, scraper: scraper}
}

// Name returns the marketplace label
func (f *ScrapeFetcher) Name() string {
	return f.source.Name
}

// Capabilities reports keyword search only
func (f *ScrapeFetcher) Capabilities() domain.Capability {
	return domain.CapabilityTextSearch
}

// Fetch scrapes the search page for the query's terms. A page without
// recognizable product cards yields an empty slice, not an error.
func (f *ScrapeFetcher) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if f.scraper == nil || !f.scraper.Configured() {
		return nil, fmt.Errorf("%w: %s scraping", domain.ErrSourceNotConfigured, f.source.Name)
	}

	terms := query.SearchTerms()
	if terms == "" {
		return nil, domain.ErrNoQueryTerms
	}

	page, err := f.scraper.Scrape(ctx, f.source.SearchURL(terms))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.source.Name, err)
	}

	cards := ExtractCards(page.Markdown, f.source.Rules, f.source.MaxItems)
	listings := make([]domain.RawListing, 0, len(cards))
	for _, card := range cards {
		estimate := f.source.ShippingEstimate
		if card.MinOrder != "" {
			estimate = "MOQ " + card.MinOrder
		}
		listings = append(listings, domain.RawListing{
			Platform:         f.source.Name,
			Title:            card.Title,
			PriceText:        card.PriceText,
			DefaultCurrency:  f.source.Currency,
			URL:              card.URL,
			ImageURL:         card.ImageURL,
			ShippingEstimate: estimate,
			Similarity:       f.source.Similarity,
		})
	}
	return listings, nil
}
