package usecase

import "github.com/supplierlens/backend/internal/domain"

// NoSuppliersMessage is returned alongside an empty result
const NoSuppliersMessage = "No suppliers found for this product. Try adjusting the title, adding a product image, or configuring more marketplace sources."

// BuildResult assembles the response payload for a finished search
func BuildResult(query domain.SearchQuery, suppliers []domain.SupplierListing, platforms []string) *domain.SearchResult {
	if suppliers == nil {
		suppliers = []domain.SupplierListing{}
	}
	if platforms == nil {
		platforms = []string{}
	}

	result := &domain.SearchResult{
		Suppliers:         suppliers,
		SearchQuery:       searchLabel(query),
		RetailPrice:       query.RetailPrice,
		RetailCurrency:    query.Currency(),
		PlatformsSearched: platforms,
	}

	if len(suppliers) > 0 {
		result.BestDeal = &result.Suppliers[0]
	} else {
		result.Message = NoSuppliersMessage
	}

	return result
}

// searchLabel echoes what was searched for: the title, or the image reference
func searchLabel(query domain.SearchQuery) string {
	if query.HasTitle() {
		return query.Title
	}
	return query.ImageRef
}
