package aliexpress

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/supplierlens/backend/internal/domain"
)

// Platform is the display name for listings from this source
const Platform = "AliExpress"

const (
	// similarityScore reflects keyword-search provenance
	similarityScore  = 0.85
	defaultDelivery  = "15-30 days"
	defaultCurrency  = "USD"
	aliexpressOrigin = "https://www.aliexpress.com"
)

// MapToRawListing converts an API result into a raw listing
func MapToRawListing(r ResultItem, currency string) domain.RawListing {
	if currency == "" {
		currency = defaultCurrency
	}

	price := r.Item.SKU.Def.PromotionPrice
	if strings.TrimSpace(price) == "" {
		price = r.Item.SKU.Def.Price
	}

	listingURL := absoluteURL(r.Item.ItemURL)
	if listingURL == "" && r.Item.ItemID != "" {
		listingURL = aliexpressOrigin + "/item/" + r.Item.ItemID + ".html"
	}

	shipping := 0.0
	if !r.Delivery.FreeShipping {
		shipping, _ = strconv.ParseFloat(strings.TrimSpace(r.Delivery.ShippingFee), 64)
	}

	estimate := defaultDelivery
	if d := strings.TrimSpace(r.Delivery.DeliveryDays); d != "" {
		estimate = d + " days"
	}

	rating := r.Item.AverageStarRate
	if rating == 0 {
		rating = r.Store.Rating
	}

	return domain.RawListing{
		Platform:         Platform,
		Title:            r.Item.Title,
		PriceText:        price,
		Currency:         currency,
		URL:              listingURL,
		ImageURL:         absoluteURL(r.Item.Image),
		ShippingCost:     shipping,
		ShippingEstimate: estimate,
		SellerName:       r.Store.StoreTitle,
		SellerRating:     rating,
		OrdersCount:      parseSales(r.Item.Sales),
		Similarity:       similarityScore,
	}
}

// absoluteURL fixes the protocol-relative URLs the API returns
func absoluteURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

var salesPattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([km])?`)

// parseSales reads counts like "1,234 sold", "5000+" or "10K+"
func parseSales(s string) int {
	m := salesPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	switch m[2] {
	case "k":
		n *= 1000
	case "m":
		n *= 1_000_000
	}
	return int(n)
}
