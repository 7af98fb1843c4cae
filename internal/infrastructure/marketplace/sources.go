package marketplace

import (
	"net/url"
	"regexp"
	"strings"
)

// Alibaba is the general B2B wholesale marketplace
func Alibaba() Source {
	return Source{
		Name: "Alibaba",
		SearchURL: func(terms string) string {
			params := url.Values{}
			params.Set("SearchText", terms)
			params.Set("IndexArea", "product_en")
			return "https://www.alibaba.com/trade/search?" + params.Encode()
		},
		Rules: Rules{
			ProductLink: regexp.MustCompile(`alibaba\.com/product-detail/`),
			Price:       DefaultPrice,
			MinOrder:    regexp.MustCompile(`(?i)min\.?\s*order:?\s*([\d,]+\s*[a-z/()]*)`),
			Window:      6,
		},
		Currency:         "USD",
		ShippingEstimate: "MOQ varies",
		Similarity:       0.75,
		MaxItems:         8,
	}
}

// MadeInChina is the manufacturer-direct B2B marketplace
func MadeInChina() Source {
	return Source{
		Name: "Made-in-China",
		SearchURL: func(terms string) string {
			slug := strings.Join(strings.Fields(terms), "_")
			return "https://www.made-in-china.com/products-search/hot-china-products/" + url.PathEscape(slug) + ".html"
		},
		Rules: Rules{
			ProductLink: regexp.MustCompile(`made-in-china\.com/(?:product|prod)/`),
			Price:       DefaultPrice,
			MinOrder:    regexp.MustCompile(`(?i)(?:min\.?\s*order|moq):?\s*([\d,]+\s*[a-z/()]*)`),
			Window:      6,
		},
		Currency:         "USD",
		ShippingEstimate: "MOQ varies",
		Similarity:       0.7,
		MaxItems:         8,
	}
}
