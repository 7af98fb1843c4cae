package websearch

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/infrastructure/firecrawl"
)

const (
	// Platform is the label for hits on domains outside the known table
	Platform = "Web"

	defaultMaxItems   = 10
	defaultSimilarity = 0.6
	hintTerms         = "wholesale supplier aliexpress alibaba"
)

// Searcher runs a web search; satisfied by *firecrawl.Client
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string, limit int) ([]firecrawl.SearchHit, error)
}

// knownDomains maps a registrable domain suffix to a marketplace label.
// Order matters only for overlapping suffixes.
var knownDomains = []struct {
	suffix   string
	platform string
}{
	{"aliexpress.com", "AliExpress"},
	{"aliexpress.us", "AliExpress"},
	{"alibaba.com", "Alibaba"},
	{"1688.com", "1688"},
	{"made-in-china.com", "Made-in-China"},
	{"dhgate.com", "DHgate"},
	{"temu.com", "Temu"},
	{"banggood.com", "Banggood"},
	{"globalsources.com", "Global Sources"},
	{"cjdropshipping.com", "CJ Dropshipping"},
}

var (
	amountPattern = regexp.MustCompile(`(?i)(?:US\s?\$|CN¥|[$€£¥])\s?\d[\d,]*(?:\.\d+)?|\d[\d.,]*\s?(?:€|EUR\b|USD\b)`)
	nonWord       = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	hashLike      = regexp.MustCompile(`^(?:[0-9a-f]{8,}|img|image|photo|pic|dsc|screenshot|\d+)$`)
)

// Fetcher is the fallback source that searches the open web and labels each
// hit by the marketplace its URL belongs to
type Fetcher struct {
	searcher Searcher
	maxItems int
}

// NewFetcher creates a new web search fetcher
func NewFetcher(searcher Searcher) *Fetcher {
	return &Fetcher{searcher: searcher, maxItems: defaultMaxItems}
}

// Name returns the source label
func (f *Fetcher) Name() string {
	return "Web search"
}

// Capabilities reports both text and image-derived queries
func (f *Fetcher) Capabilities() domain.Capability {
	return domain.CapabilityTextSearch | domain.CapabilityImageSearch
}

// Fetch issues a broadened search and converts hits to raw listings.
// Hits without a recognizable amount keep a zero price.
func (f *Fetcher) Fetch(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if f.searcher == nil || !f.searcher.Configured() {
		return nil, fmt.Errorf("%w: web search", domain.ErrSourceNotConfigured)
	}

	q := BuildQuery(query)
	if q == "" {
		return nil, domain.ErrNoQueryTerms
	}

	hits, err := f.searcher.Search(ctx, q, f.maxItems)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	listings := make([]domain.RawListing, 0, len(hits))
	for _, hit := range hits {
		if len(listings) >= f.maxItems {
			break
		}
		if hit.URL == "" {
			continue
		}
		title := strings.TrimSpace(hit.Title)
		if title == "" {
			title = hit.URL
		}
		listings = append(listings, domain.RawListing{
			Platform:   ClassifyURL(hit.URL),
			Title:      title,
			PriceText:  ExtractAmount(hit.Title + " " + hit.Description),
			URL:        hit.URL,
			Similarity: defaultSimilarity,
		})
	}
	return listings, nil
}

// BuildQuery returns the search terms plus marketplace hints, or "" when
// neither the title nor the image reference yields any terms
func BuildQuery(query domain.SearchQuery) string {
	terms := query.SearchTerms()
	if terms == "" && query.HasImage() {
		terms = ImageTerms(query.ImageRef)
	}
	if terms == "" {
		return ""
	}
	return terms + " " + hintTerms
}

// ImageTerms derives search words from an image reference's file name,
// e.g. ".../wireless-earbuds_black.jpg" gives "wireless earbuds black"
func ImageTerms(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}

	name := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	name = strings.TrimSuffix(name, path.Ext(name))

	var words []string
	for _, w := range nonWord.Split(strings.ToLower(name), -1) {
		if w == "" || hashLike.MatchString(w) {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// ClassifyURL labels a hit by its host, falling back to "Web"
func ClassifyURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return Platform
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range knownDomains {
		if host == d.suffix || strings.HasSuffix(host, "."+d.suffix) {
			return d.platform
		}
	}
	return Platform
}

// ExtractAmount returns the first currency amount in text, or ""
func ExtractAmount(text string) string {
	return amountPattern.FindString(text)
}
