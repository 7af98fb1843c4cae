package domain

import "time"

// Money is an amount in a given ISO currency
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// SupplierListing is one normalized candidate supplier offer
type SupplierListing struct {
	Platform         string  `json:"platform"`
	PlatformIcon     string  `json:"platform_icon"`
	Title            string  `json:"title"`
	Price            Money   `json:"price"`
	ListingURL       string  `json:"url"`
	ImageURL         string  `json:"image_url,omitempty"`
	ShippingCost     Money   `json:"shipping_cost"`
	ShippingEstimate string  `json:"shipping_time"`
	SellerName       string  `json:"seller_name"`
	SellerRating     float64 `json:"seller_rating"` // 0-1
	OrdersCount      int     `json:"orders_count"`
	SimilarityScore  float64 `json:"similarity_score"` // 0-1, fixed per source

	// Filled in by the margin step, expressed in the margin reference currency
	MarginPercent float64 `json:"margin_percent"`
	MarginAmount  float64 `json:"margin_amount"`
	Savings       float64 `json:"savings"`
}

// RawListing is what a fetcher extracts from its source before normalization.
// Fields are deliberately loose: prices may arrive as text and ratings on any scale.
type RawListing struct {
	Platform         string
	Title            string
	Price            float64
	PriceText        string
	Currency         string
	DefaultCurrency  string // used when neither Currency nor PriceText names one
	URL              string
	ImageURL         string
	ShippingCost     float64
	ShippingEstimate string
	SellerName       string
	SellerRating     float64
	OrdersCount      int
	Similarity       float64
}

// CatalogListing is a supplier product previously imported into the local catalog
type CatalogListing struct {
	ID           string
	Title        string
	Description  string
	Price        float64
	Currency     string
	SupplierURL  string
	ImageURL     string
	SupplierName string
	UpdatedAt    time.Time
}

// SearchResult is the ranked, deduplicated answer to a SearchQuery
type SearchResult struct {
	Suppliers         []SupplierListing `json:"suppliers"`
	BestDeal          *SupplierListing  `json:"best_deal"`
	SearchQuery       string            `json:"search_query"`
	RetailPrice       float64           `json:"retail_price"`
	RetailCurrency    string            `json:"retail_currency"`
	PlatformsSearched []string          `json:"platforms_searched"`
	Message           string            `json:"message,omitempty"`
}
