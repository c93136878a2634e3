// internal/pipeline/analyze/fallback.go
package analyze

import (
	"regexp"
	"strings"

	"shopping-assistant/internal/models"
)

var stopWords = map[string]bool{
	"i": true, "need": true, "want": true, "looking": true,
	"for": true, "a": true, "an": true, "the": true, "under": true,
}

// Price patterns tried in fixed priority order: an explicit $-prefixed
// amount wins over an "under ..." phrase, which wins over "N dollars".
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*\d+`),
	regexp.MustCompile(`(?i)under\s+\$?\s*\d+`),
	regexp.MustCompile(`(?i)\d+\s+dollars?`),
}

// FallbackIntent derives a SearchIntent from the query text alone. Pure and
// deterministic; it is the analyzer's answer whenever the completion service
// is unavailable or returns unusable output.
func FallbackIntent(rawQuery string) *models.SearchIntent {
	words := strings.Fields(strings.ToLower(rawQuery))

	category := "product"
	for _, w := range words {
		if len(w) > 3 && !stopWords[w] {
			category = w
			break
		}
	}

	features := []string{}
	for _, w := range words {
		if len(w) > 4 && !stopWords[w] {
			features = append(features, w)
			if len(features) == 3 {
				break
			}
		}
	}

	return &models.SearchIntent{
		Category:       category,
		Features:       features,
		PriceRange:     extractPrice(rawQuery),
		UseCase:        rawQuery,
		SearchKeywords: rawQuery,
	}
}

func extractPrice(rawQuery string) string {
	for _, re := range pricePatterns {
		if m := re.FindString(rawQuery); m != "" {
			return m
		}
	}
	return ""
}
