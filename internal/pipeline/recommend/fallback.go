// internal/pipeline/recommend/fallback.go
package recommend

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"shopping-assistant/internal/models"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

// rankedProduct pairs a product with its index in the aggregated list, which
// it keeps through sorting.
type rankedProduct struct {
	models.Product
	originalIndex int
}

// FallbackBundle derives a recommendation bundle from rating and price
// statistics alone. Pure and deterministic: identical input lists always
// yield identical bundles. Requires a non-empty product list.
func FallbackBundle(products []models.Product) *models.RecommendationBundle {
	ranked := make([]rankedProduct, len(products))
	for i, p := range products {
		ranked[i] = rankedProduct{Product: p, originalIndex: i}
	}

	// Highest rating first; products without a rating sort last.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ratingValue(ranked[i].Rating) > ratingValue(ranked[j].Rating)
	})

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	recommendations := make([]models.Recommendation, len(top))
	for i, p := range top {
		recommendations[i] = models.Recommendation{
			ID:     p.originalIndex,
			Reason: fallbackReason(p.Product),
		}
	}

	return &models.RecommendationBundle{
		TopRecommendations: recommendations,
		Insights:           fallbackInsights(products, ranked[0].Product),
		ValueAssessment: models.ValueAssessment{
			BestValueID: len(products) / 2,
			PremiumID:   ranked[0].originalIndex,
			BudgetID:    lowestRatedIndex(ranked),
		},
	}
}

func ratingValue(r *float64) float64 {
	if r == nil {
		// Below any real rating, including an actual 0.
		return -1
	}
	return *r
}

// lowestRatedIndex picks the last sorted product that has a rating; when
// nothing is rated, the last product overall.
func lowestRatedIndex(ranked []rankedProduct) int {
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].Rating != nil {
			return ranked[i].originalIndex
		}
	}
	return ranked[len(ranked)-1].originalIndex
}

func fallbackReason(p models.Product) string {
	if p.Rating == nil {
		return fmt.Sprintf("Popular choice from %s", p.Platform)
	}
	reviews := "many"
	if p.Reviews > 0 {
		reviews = strconv.Itoa(p.Reviews)
	}
	return fmt.Sprintf("Highly rated (%.1f⭐) %s option with %s reviews", *p.Rating, p.Platform, reviews)
}

func fallbackInsights(products []models.Product, topRated models.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d options across Google Shopping and Amazon. ", len(products))
	if topRated.Rating != nil {
		fmt.Fprintf(&sb, "Top-rated products have %.1f⭐ ratings. ", *topRated.Rating)
	} else {
		sb.WriteString("Products vary in price and features. ")
	}
	fmt.Fprintf(&sb, "Average price is around $%.0f.", averagePrice(products))
	return sb.String()
}

// averagePrice parses each display price by stripping every non-numeric
// character; unparseable prices count as 0 and the mean runs over all
// products.
func averagePrice(products []models.Product) float64 {
	var sum float64
	for _, p := range products {
		cleaned := nonNumericRe.ReplaceAllString(p.Price, "")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum / float64(len(products))
}
