package usecase

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/supplierlens/backend/internal/domain"
)

// MaxSuppliers caps the number of listings returned for one search
const MaxSuppliers = 20

// RankByPrice sorts listings ascending by price in the table's reference unit.
// The sort is stable, so equal prices keep their fetch order.
func RankByPrice(listings []domain.SupplierListing, rates RateTable) {
	slices.SortStableFunc(listings, func(a, b domain.SupplierListing) int {
		return cmp.Compare(rates.Convert(a.Price), rates.Convert(b.Price))
	})
}

type dedupKey struct {
	platform string
	price    int64
}

// Deduplicate keeps the first listing for each (platform, rounded price) pair.
// On a ranked slice the first occurrence is the cheapest one.
func Deduplicate(listings []domain.SupplierListing) []domain.SupplierListing {
	seen := make(map[dedupKey]struct{}, len(listings))
	kept := make([]domain.SupplierListing, 0, len(listings))

	for _, l := range listings {
		key := dedupKey{
			platform: strings.ToLower(l.Platform),
			price:    int64(math.Round(l.Price.Amount)),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, l)
	}

	return kept
}

// Truncate returns at most limit listings
func Truncate(listings []domain.SupplierListing, limit int) []domain.SupplierListing {
	if limit >= 0 && len(listings) > limit {
		return listings[:limit]
	}
	return listings
}
