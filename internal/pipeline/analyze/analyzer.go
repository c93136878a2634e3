// internal/pipeline/analyze/analyzer.go
package analyze

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
	StageName = "analyze-query"

	// The analyzer runs cool so the structured output stays predictable.
	completionTemperature = 0.3
)

const systemPrompt = `You are a product search assistant. Analyze the user's query and extract structured information.

Return ONLY a valid JSON object (no markdown, no explanation) with these exact keys:
{
  "category": "main product type",
  "features": ["key feature 1", "key feature 2"],
  "price_range": "price constraint if mentioned or null",
  "use_case": "purpose or use case",
  "search_keywords": "optimized keywords for search"
}

Example for "standing desk under $500":
{"category":"standing desk","features":["adjustable","office furniture"],"price_range":"under $500","use_case":"office work","search_keywords":"standing desk adjustable under 500"}`

// intentSchema gates the untrusted completion payload before coercion. All
// fields are optional (coercion supplies defaults) but present fields must
// have the right types.
var intentSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"category":        map[string]interface{}{"type": "string"},
		"features":        map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"price_range":     map[string]interface{}{"type": []string{"string", "null"}},
		"use_case":        map[string]interface{}{"type": "string"},
		"search_keywords": map[string]interface{}{"type": "string"},
	},
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Analyzer turns a raw query string into a SearchIntent. It degrades to a
// deterministic heuristic instead of propagating any error.
type Analyzer struct {
	completions *llm.Client
	logger      Logger
}

func NewAnalyzer(completions *llm.Client, log Logger) *Analyzer {
	return &Analyzer{
		completions: completions,
		logger: log.With(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Analyze never fails: any completion-service problem falls back to the
// local heuristic, which itself cannot fail.
func (a *Analyzer) Analyze(ctx context.Context, rawQuery string) *models.SearchIntent {
	intent, err := a.analyzeWithCompletion(ctx, rawQuery)
	if err != nil {
		a.logger.Warn("query analysis degraded to heuristic fallback", map[string]interface{}{
			"query": rawQuery,
			"error": err.Error(),
		})
		metrics.CompletionFallbacksTotal.WithLabelValues(StageName).Inc()
		return FallbackIntent(rawQuery)
	}

	a.logger.Info("query analyzed", map[string]interface{}{
		"query":    rawQuery,
		"category": intent.Category,
		"keywords": intent.SearchKeywords,
	})
	return intent
}

func (a *Analyzer) analyzeWithCompletion(ctx context.Context, rawQuery string) (*models.SearchIntent, error) {
	content, err := a.completions.Complete(ctx, StageName, systemPrompt, rawQuery, completionTemperature)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSONObject(content)
	if err != nil {
		return nil, apperrors.NewCompletionBadOutputError(StageName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(intentSchema),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, apperrors.NewCompletionBadOutputError(StageName, fmt.Errorf("intent payload rejected: %v", result.Errors()))
	}

	var raw struct {
		Category       string   `json:"category"`
		Features       []string `json:"features"`
		PriceRange     *string  `json:"price_range"`
		UseCase        string   `json:"use_case"`
		SearchKeywords string   `json:"search_keywords"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}

	return coerceIntent(raw.Category, raw.Features, raw.PriceRange, raw.UseCase, raw.SearchKeywords, rawQuery), nil
}

// coerceIntent fills defaults for any fields the completion left out.
func coerceIntent(category string, features []string, priceRange *string, useCase, searchKeywords, rawQuery string) *models.SearchIntent {
	if category == "" {
		category = "product"
	}
	if features == nil {
		features = []string{}
	}
	price := ""
	if priceRange != nil {
		price = *priceRange
	}
	if useCase == "" {
		useCase = rawQuery
	}
	if searchKeywords == "" {
		searchKeywords = rawQuery
	}
	return &models.SearchIntent{
		Category:       category,
		Features:       features,
		PriceRange:     price,
		UseCase:        useCase,
		SearchKeywords: searchKeywords,
	}
}
