package usecase

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// QueryPreprocessor turns a merchant's storefront title into marketplace search terms
type QueryPreprocessor struct {
	logger *slog.Logger
}

// Compiled regex patterns for query preprocessing
var (
	// Matches pack/count patterns like "2 pack", "pack of 6", "3-pcs", "10 pieces", "set of 4"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+\s*[-x]?\s*(?:pack|pk|pcs?|pieces?|count|ct|units?)\b|\b(?:pack|set)\s*of\s*\d+\b`)

	// Matches bracketed storefront tags like "[NEW]" or "(2024 version)"
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|【[^】]*】`)

	// Matches separators sellers put between title fragments
	separatorPattern = regexp.MustCompile(`\s*[|/•·+]\s*`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are storefront marketing terms that narrow nothing on a supplier marketplace
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"new":        true,
	"hot":        true,
	"sale":       true,
	"best":       true,
	"seller":     true,
	"bestseller": true,
	"premium":    true,
	"quality":    true,
	"high":       true,
	"original":   true,
	"official":   true,
	"genuine":    true,
	"authentic":  true,
	"limited":    true,
	"edition":    true,
	"exclusive":  true,
	"trending":   true,
	"viral":      true,
	"gift":       true,
	"promo":      true,
	"discount":   true,
	"offer":      true,
	"deal":       true,
	"nouveau":    true,
	"nouveauté":  true,
	"promotion":  true,
	"qualité":    true,
	"livraison":  true,
	"gratuite":   true,
	"offert":     true,

	// Shipping terms
	"free":     true,
	"shipping": true,
	"fast":     true,
	"express":  true,
	"delivery": true,

	// Stop words
	"the":  true,
	"a":    true,
	"an":   true,
	"and":  true,
	"for":  true,
	"with": true,
	"de":   true,
	"la":   true,
	"le":   true,
	"les":  true,
	"et":   true,
	"pour": true,
	"avec": true,
}

// maxQueryLength keeps marketplace search URLs and web queries short
const maxQueryLength = 80

// NewQueryPreprocessor creates a new query preprocessor; a nil logger disables debug output
func NewQueryPreprocessor(logger *slog.Logger) *QueryPreprocessor {
	return &QueryPreprocessor{logger: logger}
}

// PreprocessQuery cleans a product title for marketplace search.
// Removes bracketed tags, pack counts, marketing terms, and normalizes whitespace.
func (p *QueryPreprocessor) PreprocessQuery(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}

	// Step 1: Drop bracketed tags
	cleaned := bracketPattern.ReplaceAllString(title, " ")

	// Step 2: Split joined fragments
	cleaned = separatorPattern.ReplaceAllString(cleaned, " ")

	// Step 3: Remove pack/count patterns
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")

	// Step 4: Remove noise words
	cleaned = removeNoiseWords(cleaned)

	// Step 5: Clean up orphaned punctuation
	cleaned = cleanOrphanedPunctuation(cleaned)

	// Step 6: Normalize whitespace
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Step 7: Limit length at a word boundary
	if len(cleaned) > maxQueryLength {
		cut := maxQueryLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	// Everything was noise; fall back to the lower-cased title
	if cleaned == "" {
		cleaned = strings.ToLower(multiSpacePattern.ReplaceAllString(strings.TrimSpace(title), " "))
	}

	if p.logger != nil {
		p.logger.Debug("preprocessed query", "input", title, "output", cleaned)
	}

	return cleaned
}

// removeNoiseWords removes marketing and filler terms from the query
func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))

	for _, word := range words {
		cleanWord := strings.Trim(word, ",.!?;:-'\"")
		if cleanWord == "" || queryNoiseWords[cleanWord] {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}

var (
	lonePunctuation     = regexp.MustCompile(`\s+[,\-;:]+\s+`)
	trailingPunctuation = regexp.MustCompile(`[,\-;:]+\s*$`)
	leadingPunctuation  = regexp.MustCompile(`^\s*[,\-;:]+`)
)

// cleanOrphanedPunctuation removes punctuation that's now alone (e.g., lone commas)
func cleanOrphanedPunctuation(s string) string {
	result := lonePunctuation.ReplaceAllString(s, " ")
	result = trailingPunctuation.ReplaceAllString(result, "")
	return leadingPunctuation.ReplaceAllString(result, "")
}
