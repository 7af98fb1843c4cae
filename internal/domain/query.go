package domain

import "strings"

// SearchMethod selects which families of sources a search may use
type SearchMethod string

const (
	SearchMethodText        SearchMethod = "text"
	SearchMethodImage       SearchMethod = "image"
	SearchMethodBoth        SearchMethod = "both"
	SearchMethodUnspecified SearchMethod = ""
)

// DefaultRetailCurrency is assumed when the merchant does not send one
const DefaultRetailCurrency = "EUR"

// ParseSearchMethod maps a client string to a SearchMethod; unknown values are unspecified
func ParseSearchMethod(s string) SearchMethod {
	switch SearchMethod(strings.ToLower(strings.TrimSpace(s))) {
	case SearchMethodText:
		return SearchMethodText
	case SearchMethodImage:
		return SearchMethodImage
	case SearchMethodBoth:
		return SearchMethodBoth
	default:
		return SearchMethodUnspecified
	}
}

// AllowsText reports whether title-based sources may run
func (m SearchMethod) AllowsText() bool {
	return m == SearchMethodText || m == SearchMethodBoth || m == SearchMethodUnspecified
}

// AllowsImage reports whether image-based sources may run
func (m SearchMethod) AllowsImage() bool {
	return m == SearchMethodImage || m == SearchMethodBoth
}

// SearchQuery is a merchant's request to find cheaper sources for a product
type SearchQuery struct {
	Title          string
	ImageRef       string
	RetailPrice    float64
	RetailCurrency string
	Method         SearchMethod

	// Keywords holds the cleaned marketplace search terms derived from Title
	Keywords string
}

// HasTitle reports whether a non-blank title was given
func (q SearchQuery) HasTitle() bool {
	return strings.TrimSpace(q.Title) != ""
}

// HasImage reports whether a non-blank image reference was given
func (q SearchQuery) HasImage() bool {
	return strings.TrimSpace(q.ImageRef) != ""
}

// SearchTerms returns the cleaned keywords, or the raw title when none were derived
func (q SearchQuery) SearchTerms() string {
	if k := strings.TrimSpace(q.Keywords); k != "" {
		return k
	}
	return strings.TrimSpace(q.Title)
}

// Validate checks that the query identifies a product
func (q SearchQuery) Validate() error {
	if !q.HasTitle() && !q.HasImage() {
		return ErrInvalidRequest
	}
	return nil
}

// Currency returns the retail currency, falling back to DefaultRetailCurrency
func (q SearchQuery) Currency() string {
	c := strings.ToUpper(strings.TrimSpace(q.RetailCurrency))
	if c == "" {
		return DefaultRetailCurrency
	}
	return c
}
