package usecase

import (
	"strings"

	"github.com/supplierlens/backend/internal/domain"
)

// RateTable converts amounts into a single comparison unit.
// Rates are static approximations, not market rates.
type RateTable map[string]float64

// NewRateTable builds a table with upper-cased currency codes.
// Config loaders lower-case map keys, so callers may pass either form.
func NewRateTable(rates map[string]float64) RateTable {
	table := make(RateTable, len(rates))
	for code, rate := range rates {
		if rate <= 0 {
			continue
		}
		table[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return table
}

// Rate returns the conversion factor for a currency, 1 when unknown
func (t RateTable) Rate(currency string) float64 {
	if rate, ok := t[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return rate
	}
	return 1
}

// Convert expresses m in the table's reference unit
func (t RateTable) Convert(m domain.Money) float64 {
	return m.Amount * t.Rate(m.Currency)
}

// DefaultRankingRates converts to US dollars and is used to order listings.
func DefaultRankingRates() RateTable {
	return RateTable{
		"USD": 1,
		"EUR": 1.08,
		"GBP": 1.27,
		"CNY": 0.14,
		"JPY": 0.0067,
		"CAD": 0.74,
		"AUD": 0.66,
		"CHF": 1.13,
		"INR": 0.012,
	}
}

// DefaultMarginRates converts to euros and is used for margin figures.
// It is kept separate from DefaultRankingRates on purpose; the two tables
// do not agree exactly (see DESIGN.md).
func DefaultMarginRates() RateTable {
	return RateTable{
		"EUR": 1,
		"USD": 0.92,
		"GBP": 1.17,
		"CNY": 0.13,
		"JPY": 0.0062,
		"CAD": 0.68,
		"AUD": 0.61,
		"CHF": 1.05,
	}
}
