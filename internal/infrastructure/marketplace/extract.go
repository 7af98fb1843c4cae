package marketplace

import (
	"regexp"
	"strings"
)

// Rules describe how to read product cards out of a rendered search page.
// Each marketplace supplies its own; the scanning logic is shared.
type Rules struct {
	// ProductLink matches URLs of product detail pages
	ProductLink *regexp.Regexp
	// Price matches a displayed price or price range
	Price *regexp.Regexp
	// MinOrder optionally captures the minimum order quantity in group 1
	MinOrder *regexp.Regexp
	// Window is how many lines after a product link may hold its price
	Window int
}

// Card is one product pulled from a search page
type Card struct {
	Title     string
	URL       string
	ImageURL  string
	PriceText string
	MinOrder  string
}

var (
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\((https?://[^)\s]+)[^)]*\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^)\s]+)[^)]*\)`)

	// DefaultPrice matches "US$3.50", "$ 1.20 - 2.40", "€4,99", "CN¥12" and "4,99 €"
	DefaultPrice = regexp.MustCompile(`(?i)(?:US\s?\$|CN¥|[$€£¥])\s?\d[\d,]*(?:\.\d+)?(?:\s?-\s?(?:US\s?\$|[$€£¥])?\s?\d[\d,]*(?:\.\d+)?)?|\d[\d.]*(?:,\d{1,2})?\s?(?:€|EUR\b)`)
)

// ExtractCards scans markdown line by line, pairing each product link with
// the first price that follows it within the rules' window. Cards without a
// price are dropped. At most limit cards are returned.
func ExtractCards(markdown string, rules Rules, limit int) []Card {
	if rules.Price == nil {
		rules.Price = DefaultPrice
	}
	if rules.Window <= 0 {
		rules.Window = 4
	}

	var (
		cards     []Card
		seen      = make(map[string]bool)
		pending   *Card
		remaining int
		lastImage string
	)

	flush := func() {
		if pending != nil && pending.Title != "" && pending.PriceText != "" && !seen[pending.URL] {
			seen[pending.URL] = true
			cards = append(cards, *pending)
		}
		pending = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		if limit > 0 && len(cards) >= limit {
			break
		}

		images := imagePattern.FindAllStringSubmatch(line, -1)
		line = imagePattern.ReplaceAllString(line, "$1")

		var links []Card
		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			target := canonicalURL(m[2])
			if rules.ProductLink != nil && rules.ProductLink.MatchString(target) {
				links = append(links, Card{Title: strings.TrimSpace(m[1]), URL: target})
			}
		}

		// Images on a line that opens a new card belong to that card
		opensCard := false
		for _, l := range links {
			if pending == nil || l.URL != pending.URL {
				opensCard = true
			}
		}
		for _, m := range images {
			if !opensCard && pending != nil && pending.ImageURL == "" {
				pending.ImageURL = m[2]
				continue
			}
			lastImage = m[2]
		}

		for _, l := range links {
			if pending != nil && pending.URL == l.URL {
				if len(l.Title) > len(pending.Title) {
					pending.Title = l.Title
				}
				continue
			}
			flush()
			pending = &Card{Title: l.Title, URL: l.URL, ImageURL: lastImage}
			lastImage = ""
			remaining = rules.Window
		}

		if pending == nil {
			continue
		}

		plain := linkPattern.ReplaceAllString(line, "$1")
		if pending.PriceText == "" {
			if price := rules.Price.FindString(plain); price != "" {
				pending.PriceText = strings.TrimSpace(price)
			}
		}
		if rules.MinOrder != nil && pending.MinOrder == "" {
			if m := rules.MinOrder.FindStringSubmatch(plain); len(m) > 1 {
				pending.MinOrder = strings.TrimSpace(m[1])
			}
		}

		remaining--
		if remaining < 0 {
			flush()
		}
	}
	flush()

	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	return cards
}

// canonicalURL drops query strings and fragments so tracking parameters
// do not defeat duplicate detection
func canonicalURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return u
}
