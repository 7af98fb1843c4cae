package usecase

import (
	"math"

	"github.com/supplierlens/backend/internal/domain"
)

// ApplyMargins annotates each listing with the margin a merchant selling at
// retailPrice would make buying from it. Figures are in the margin table's
// reference unit. Without a positive retail price every margin is zero.
func ApplyMargins(listings []domain.SupplierListing, retailPrice float64, retailCurrency string, rates RateTable) {
	if retailPrice <= 0 {
		for i := range listings {
			listings[i].MarginPercent = 0
			listings[i].MarginAmount = 0
			listings[i].Savings = 0
		}
		return
	}

	retailRef := rates.Convert(domain.Money{Amount: retailPrice, Currency: retailCurrency})

	for i := range listings {
		supplierRef := rates.Convert(listings[i].Price)
		margin := retailRef - supplierRef

		listings[i].MarginAmount = roundTo(margin, 2)
		listings[i].MarginPercent = roundTo(margin/retailRef*100, 1)
		listings[i].Savings = roundTo(margin, 2)
	}
}

// roundTo rounds half away from zero to the given number of decimals
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
