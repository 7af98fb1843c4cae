package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplierlens/backend/internal/domain"
)

func TestBuildResult(t *testing.T) {
	t.Run("best deal is the first supplier", func(t *testing.T) {
		suppliers := []domain.SupplierListing{
			listing("AliExpress", "cheapest", 3, "USD"),
			listing("Alibaba", "next", 4, "USD"),
		}
		query := domain.SearchQuery{Title: "desk lamp", RetailPrice: 20, RetailCurrency: "usd"}

		got := BuildResult(query, suppliers, []string{"AliExpress", "Alibaba"})

		require.NotNil(t, got.BestDeal)
		assert.Same(t, &got.Suppliers[0], got.BestDeal)
		assert.Equal(t, "desk lamp", got.SearchQuery)
		assert.Equal(t, 20.0, got.RetailPrice)
		assert.Equal(t, "USD", got.RetailCurrency)
		assert.Empty(t, got.Message)
	})

	t.Run("empty result carries message", func(t *testing.T) {
		got := BuildResult(domain.SearchQuery{ImageRef: "https://cdn.example/lamp.jpg"}, nil, nil)

		assert.NotNil(t, got.Suppliers)
		assert.Empty(t, got.Suppliers)
		assert.NotNil(t, got.PlatformsSearched)
		assert.Nil(t, got.BestDeal)
		assert.Equal(t, NoSuppliersMessage, got.Message)
		assert.Equal(t, "https://cdn.example/lamp.jpg", got.SearchQuery)
		assert.Equal(t, "EUR", got.RetailCurrency)
	})
}
