// internal/pipeline/recommend/recommender.go
package recommend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/llm"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const (
	StageName = "recommend"

	// Higher temperature than the analyzer: the reasons and insights are
	// prose, not parameters.
	completionTemperature = 0.7
)

const systemPrompt = `You are a product recommendation expert. Analyze products and provide helpful insights.

Return ONLY a valid JSON object (no markdown, no explanation) with:
{
  "top_recommendations": [{"id": 0, "reason": "why this product is good"}, ...],
  "insights": "2-3 sentence summary about the products",
  "value_assessment": {"best_value_id": 0, "premium_id": 1, "budget_id": 2}
}

Focus on matching the user's needs and being specific about why products are recommended.`

// bundleSchema gates the untrusted completion payload. Unlike the intent
// schema everything here is required: a bundle with missing pieces is not
// worth patching up when the deterministic fallback exists.
var bundleSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"top_recommendations", "insights", "value_assessment"},
	"properties": map[string]interface{}{
		"top_recommendations": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"id", "reason"},
				"properties": map[string]interface{}{
					"id":     map[string]interface{}{"type": "integer"},
					"reason": map[string]interface{}{"type": "string"},
				},
			},
		},
		"insights": map[string]interface{}{"type": "string"},
		"value_assessment": map[string]interface{}{
			"type":     "object",
			"required": []string{"best_value_id", "premium_id", "budget_id"},
			"properties": map[string]interface{}{
				"best_value_id": map[string]interface{}{"type": "integer"},
				"premium_id":    map[string]interface{}{"type": "integer"},
				"budget_id":     map[string]interface{}{"type": "integer"},
			},
		},
	},
}

// productSummary is the compact per-product view sent to the completion
// service; id is the product's index in the aggregated list.
type productSummary struct {
	ID       int             `json:"id"`
	Platform models.Platform `json:"platform"`
	Title    string          `json:"title"`
	Price    string          `json:"price"`
	Rating   *float64        `json:"rating"`
	Reviews  int             `json:"reviews"`
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Recommender produces the ranked, explained recommendation bundle. Callers
// must pass a non-empty product list; the orchestrator short-circuits before
// this stage otherwise.
type Recommender struct {
	completions *llm.Client
	logger      Logger
}

func NewRecommender(completions *llm.Client, log Logger) *Recommender {
	return &Recommender{
		completions: completions,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Recommend never fails: any completion-service problem, unusable payload,
// or out-of-range product index falls back to the deterministic ranking.
func (r *Recommender) Recommend(ctx context.Context, originalQuery string, products []models.Product) *models.RecommendationBundle {
	bundle, err := r.recommendWithCompletion(ctx, originalQuery, products)
	if err != nil {
		r.logger.Warn("recommendation degraded to deterministic fallback", map[string]interface{}{
			"query": originalQuery,
			"error": err.Error(),
		})
		metrics.CompletionFallbacksTotal.WithLabelValues(StageName).Inc()
		return FallbackBundle(products)
	}

	r.logger.Info("recommendations generated", map[string]interface{}{
		"query":              originalQuery,
		"topRecommendations": len(bundle.TopRecommendations),
	})
	return bundle
}

func (r *Recommender) recommendWithCompletion(ctx context.Context, originalQuery string, products []models.Product) (*models.RecommendationBundle, error) {
	summaries := make([]productSummary, len(products))
	for i, p := range products {
		summaries[i] = productSummary{
			ID:       i,
			Platform: p.Platform,
			Title:    p.Title,
			Price:    p.Price,
			Rating:   p.Rating,
			Reviews:  p.Reviews,
		}
	}
	summaryJSON, _ := json.MarshalIndent(summaries, "", "  ")

	userPrompt := fmt.Sprintf("User query: %q\n\nProducts available:\n%s\n\nProvide top 3 recommendations with reasons, overall insights, and value assessment.", originalQuery, summaryJSON)

	content, err := r.completions.Complete(ctx, StageName, systemPrompt, userPrompt, completionTemperature)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSONObject(content)
	if err != nil {
		return nil, apperrors.NewCompletionBadOutputError(StageName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(bundleSchema),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, apperrors.NewCompletionBadOutputError(StageName, fmt.Errorf("bundle payload rejected: %v", result.Errors()))
	}

	var bundle models.RecommendationBundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}

	// Completion output is untrusted free text coerced to JSON; a single
	// out-of-range product index invalidates the whole bundle rather than
	// being clamped to a product the model never referred to.
	if err := validateIndices(&bundle, len(products)); err != nil {
		return nil, apperrors.NewCompletionBadOutputError(StageName, err)
	}

	return &bundle, nil
}

func validateIndices(bundle *models.RecommendationBundle, productCount int) error {
	inRange := func(id int) bool { return id >= 0 && id < productCount }

	for _, rec := range bundle.TopRecommendations {
		if !inRange(rec.ID) {
			return fmt.Errorf("recommendation index %d out of range [0,%d)", rec.ID, productCount)
		}
	}
	va := bundle.ValueAssessment
	for _, id := range []int{va.BestValueID, va.PremiumID, va.BudgetID} {
		if !inRange(id) {
			return fmt.Errorf("value assessment index %d out of range [0,%d)", id, productCount)
		}
	}
	return nil
}
