// internal/pipeline/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const (
	noProductsMessage    = "No products found for your query. Please try different keywords."
	pipelineErrorMessage = "An error occurred while processing your request."
)

// QueryAnalyzer turns a raw query into a structured intent; it cannot fail.
type QueryAnalyzer interface {
	Analyze(ctx context.Context, rawQuery string) *models.SearchIntent
}

// ProductSearcher fans a keyword search out to every catalog provider.
type ProductSearcher interface {
	SearchAll(ctx context.Context, keywords string, perProviderLimit int) []models.Product
	ProviderNames() []string
}

// Synthesizer builds the recommendation bundle; it cannot fail and requires
// a non-empty product list.
type Synthesizer interface {
	Recommend(ctx context.Context, originalQuery string, products []models.Product) *models.RecommendationBundle
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Engine sequences analyzer, aggregator and synthesizer into one pipeline
// run and shapes the response envelope. It is the single boundary where
// unexpected failures are converted into a failure envelope instead of
// reaching the caller.
type Engine struct {
	analyzer         QueryAnalyzer
	searcher         ProductSearcher
	synthesizer      Synthesizer
	perProviderLimit int
	logger           Logger
}

func New(analyzer QueryAnalyzer, searcher ProductSearcher, synthesizer Synthesizer, perProviderLimit int, log Logger) *Engine {
	return &Engine{
		analyzer:         analyzer,
		searcher:         searcher,
		synthesizer:      synthesizer,
		perProviderLimit: perProviderLimit,
		logger: log.With(map[string]interface{}{
			"component": "engine",
		}),
	}
}

// GetRecommendations runs the full pipeline for one query. The returned
// envelope is always non-nil and the call never panics outward.
func (e *Engine) GetRecommendations(ctx context.Context, rawQuery string) (envelope *models.ResponseEnvelope) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			perr := apperrors.NewPipelineError(fmt.Errorf("%v", r))
			e.logger.Error("pipeline run panicked", map[string]interface{}{
				"query": rawQuery,
				"code":  string(apperrors.CodeOf(perr)),
				"panic": perr.Details,
			})
			metrics.PipelineRequestsTotal.WithLabelValues("error").Inc()
			envelope = errorEnvelope(perr.Details)
		}
	}()

	var intent *models.SearchIntent
	stageTimer("analyze-query", func() {
		intent = e.analyzer.Analyze(ctx, rawQuery)
	})

	keywords := intent.SearchKeywords
	if keywords == "" {
		keywords = rawQuery
	}

	var products []models.Product
	stageTimer("search-products", func() {
		products = e.searcher.SearchAll(ctx, keywords, e.perProviderLimit)
	})

	if len(products) == 0 {
		e.logger.Info("pipeline finished without products", map[string]interface{}{
			"query":    rawQuery,
			"keywords": keywords,
		})
		metrics.PipelineRequestsTotal.WithLabelValues("no_results").Inc()
		return &models.ResponseEnvelope{
			Success:         false,
			Message:         noProductsMessage,
			Analysis:        intent,
			Products:        []models.Product{},
			Recommendations: nil,
		}
	}

	var recommendations *models.RecommendationBundle
	stageTimer("recommend", func() {
		recommendations = e.synthesizer.Recommend(ctx, rawQuery, products)
	})

	e.logger.Info("pipeline finished", map[string]interface{}{
		"query":        rawQuery,
		"productCount": len(products),
		"durationMs":   time.Since(start).Milliseconds(),
	})
	metrics.PipelineRequestsTotal.WithLabelValues("success").Inc()

	return &models.ResponseEnvelope{
		Success:         true,
		Message:         fmt.Sprintf("Found %d products across %s", len(products), strings.Join(e.searcher.ProviderNames(), " and ")),
		Analysis:        intent,
		Products:        products,
		Recommendations: recommendations,
	}
}

func stageTimer(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func errorEnvelope(detail string) *models.ResponseEnvelope {
	return &models.ResponseEnvelope{
		Success:         false,
		Message:         pipelineErrorMessage,
		Error:           detail,
		Analysis:        nil,
		Products:        []models.Product{},
		Recommendations: nil,
	}
}
