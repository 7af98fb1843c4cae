package domain

import "context"

// Capability is the set of query kinds a fetcher can serve
type Capability uint8

const (
	// CapabilityTextSearch marks sources that search by product title
	CapabilityTextSearch Capability = 1 << iota
	// CapabilityImageSearch marks sources that can work from an image reference
	CapabilityImageSearch
	// CapabilityCatalog marks the local catalog, which is consulted on every search
	CapabilityCatalog
)

// Has reports whether all bits of other are set
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// SupplierFetcher is implemented by every supplier source.
// Fetch returns raw listings or an error; callers treat errors as an empty result.
type SupplierFetcher interface {
	Name() string
	Capabilities() Capability
	Fetch(ctx context.Context, query SearchQuery) ([]RawListing, error)
}

// ListingStore is the read-only catalog of previously imported supplier listings
type ListingStore interface {
	SearchListings(ctx context.Context, text string, limit int) ([]CatalogListing, error)
}
