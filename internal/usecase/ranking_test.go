package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplierlens/backend/internal/domain"
)

func listing(platform, title string, amount float64, currency string) domain.SupplierListing {
	return domain.SupplierListing{
		Platform: platform,
		Title:    title,
		Price:    domain.Money{Amount: amount, Currency: currency},
	}
}

func titles(listings []domain.SupplierListing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestRankByPrice(t *testing.T) {
	listings := []domain.SupplierListing{
		listing("AliExpress", "nine dollars", 9, "USD"),
		listing("Catalog", "six euros", 6, "EUR"),
		listing("AliExpress", "five dollars", 5, "USD"),
		listing("Alibaba", "forty yuan", 40, "CNY"),
		listing("Web", "seven mystery", 7, "XYZ"),
	}

	rates := DefaultRankingRates()
	RankByPrice(listings, rates)

	// 40 CNY = 5.6 USD, 6 EUR = 6.48 USD, unknown currency counts 1:1
	assert.Equal(t, []string{"five dollars", "forty yuan", "six euros", "seven mystery", "nine dollars"}, titles(listings))
	for i := 1; i < len(listings); i++ {
		assert.LessOrEqual(t, rates.Convert(listings[i-1].Price), rates.Convert(listings[i].Price))
	}
}

func TestRankByPrice_StableForTies(t *testing.T) {
	listings := []domain.SupplierListing{
		listing("A", "first", 5, "USD"),
		listing("B", "second", 5, "USD"),
		listing("C", "cheaper", 1, "USD"),
		listing("D", "third", 5, "USD"),
	}

	RankByPrice(listings, DefaultRankingRates())

	assert.Equal(t, []string{"cheaper", "first", "second", "third"}, titles(listings))
}

func TestDeduplicate(t *testing.T) {
	t.Run("same platform and rounded price collapse to the first", func(t *testing.T) {
		ranked := []domain.SupplierListing{
			listing("AliExpress", "a", 9.6, "USD"),
			listing("AliExpress", "b", 9.995, "USD"),
			listing("aliexpress", "c", 10.4, "USD"),
		}

		got := Deduplicate(ranked)

		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Title)
	})

	t.Run("different platforms are kept", func(t *testing.T) {
		got := Deduplicate([]domain.SupplierListing{
			listing("AliExpress", "a", 10, "USD"),
			listing("Alibaba", "b", 10, "USD"),
		})

		assert.Equal(t, []string{"a", "b"}, titles(got))
	})

	t.Run("rounding splits at half", func(t *testing.T) {
		got := Deduplicate([]domain.SupplierListing{
			listing("AliExpress", "low", 10.49, "USD"),
			listing("AliExpress", "high", 10.5, "USD"),
		})

		assert.Len(t, got, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Deduplicate(nil))
	})
}

func TestTruncate(t *testing.T) {
	many := make([]domain.SupplierListing, 25)

	assert.Len(t, Truncate(many, MaxSuppliers), 20)
	assert.Len(t, Truncate(many[:3], MaxSuppliers), 3)
	assert.Empty(t, Truncate(many, 0))
}
