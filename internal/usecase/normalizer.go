package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/supplierlens/backend/internal/domain"
)

const (
	unknownShippingEstimate = "Varies"
	defaultListingCurrency  = "USD"
)

// platformIcons maps platform names to the glyph shown next to a listing
var platformIcons = map[string]string{
	"aliexpress":    "🛒",
	"alibaba":       "🏭",
	"made-in-china": "🏗️",
	"dhgate":        "📦",
	"1688":          "🇨🇳",
	"temu":          "🧡",
	"banggood":      "🔧",
	"catalog":       "⭐",
	"web":           "🌐",
}

// currencyMarkers are checked in order, so longer markers must come first
var currencyMarkers = []struct {
	marker   string
	currency string
}{
	{"US $", "USD"}, {"US$", "USD"}, {"USD", "USD"},
	{"CN¥", "CNY"}, {"RMB", "CNY"}, {"CNY", "CNY"}, {"元", "CNY"},
	{"EUR", "EUR"}, {"€", "EUR"},
	{"GBP", "GBP"}, {"£", "GBP"},
	{"C$", "CAD"}, {"CA$", "CAD"}, {"CAD", "CAD"},
	{"A$", "AUD"}, {"AU$", "AUD"}, {"AUD", "AUD"},
	{"CHF", "CHF"},
	{"JPY", "JPY"}, {"¥", "JPY"},
	{"₹", "INR"}, {"INR", "INR"},
	{"$", "USD"},
}

// numberPattern accepts space-grouped thousands or a plain run of digits with
// separators. A space-grouped number needs decimals ("1 299,00") or a trailing
// currency or end of text ("1 299 €") so "5 100 pieces" reads as 5. The
// grouped digits without decimals are captured in group 1.
var numberPattern = regexp.MustCompile(`\d{1,3}(?:[ \x{00a0}]\d{3})+[.,]\d+|(\d{1,3}(?:[ \x{00a0}]\d{3})+)(?:[ \x{00a0}]?(?:€|EUR\b|USD\b|GBP\b|CHF\b)|$)|\d[\d.,]*`)

// NormalizeListing maps a raw fetcher record onto the canonical listing.
// It never fails: anything unusable becomes a neutral default.
func NormalizeListing(raw domain.RawListing) domain.SupplierListing {
	amount, currency := raw.Price, strings.ToUpper(strings.TrimSpace(raw.Currency))
	if raw.PriceText != "" && amount <= 0 {
		parsed, detected := ParsePrice(raw.PriceText)
		amount = parsed
		if currency == "" {
			currency = detected
		}
	}
	if amount < 0 {
		amount = 0
	}
	if currency == "" {
		currency = strings.ToUpper(strings.TrimSpace(raw.DefaultCurrency))
	}
	if currency == "" {
		currency = defaultListingCurrency
	}

	shippingEstimate := strings.TrimSpace(raw.ShippingEstimate)
	if shippingEstimate == "" {
		shippingEstimate = unknownShippingEstimate
	}

	shipping := raw.ShippingCost
	if shipping < 0 {
		shipping = 0
	}

	orders := raw.OrdersCount
	if orders < 0 {
		orders = 0
	}

	platform := strings.TrimSpace(raw.Platform)

	return domain.SupplierListing{
		Platform:         platform,
		PlatformIcon:     PlatformIcon(platform),
		Title:            strings.TrimSpace(raw.Title),
		Price:            domain.Money{Amount: amount, Currency: currency},
		ListingURL:       strings.TrimSpace(raw.URL),
		ImageURL:         strings.TrimSpace(raw.ImageURL),
		ShippingCost:     domain.Money{Amount: shipping, Currency: currency},
		ShippingEstimate: shippingEstimate,
		SellerName:       strings.TrimSpace(raw.SellerName),
		SellerRating:     normalizeRating(raw.SellerRating),
		OrdersCount:      orders,
		SimilarityScore:  clamp01(raw.Similarity),
	}
}

// PlatformIcon returns the display glyph for a platform name
func PlatformIcon(platform string) string {
	if icon, ok := platformIcons[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return icon
	}
	return platformIcons["web"]
}

// ParsePrice extracts the first amount in a price string and the currency its
// symbol implies. Ranges such as "$3.20 - $5.10" yield the lower bound.
// Unparseable text returns 0 and an empty currency.
func ParsePrice(text string) (float64, string) {
	currency := detectCurrency(text)

	groups := numberPattern.FindStringSubmatch(text)
	if groups == nil {
		return 0, currency
	}
	match := groups[0]
	if groups[1] != "" {
		match = groups[1]
	}
	amount, err := strconv.ParseFloat(normalizeDecimal(match), 64)
	if err != nil || amount < 0 {
		return 0, currency
	}
	return amount, currency
}

func detectCurrency(text string) string {
	upper := strings.ToUpper(text)
	for _, m := range currencyMarkers {
		if strings.Contains(upper, strings.ToUpper(m.marker)) {
			return m.currency
		}
	}
	return ""
}

// normalizeDecimal turns "1,234.50", "1.234,50", "12,5" or "1 299" into a
// string strconv can parse.
func normalizeDecimal(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".,")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		decimals := len(s) - lastComma - 1
		if strings.Count(s, ",") == 1 && decimals > 0 && decimals <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// normalizeRating accepts 0-1, 0-5 star and 0-100 percent scales
func normalizeRating(r float64) float64 {
	switch {
	case r <= 0:
		return 0
	case r <= 1:
		return r
	case r <= 5:
		return r / 5
	case r <= 100:
		return r / 100
	default:
		return 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
