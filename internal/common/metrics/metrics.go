// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	ProviderSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_searches_total",
			Help: "Total number of catalog provider searches by outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderResultsCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_results_count",
			Help:    "Number of products returned per provider search",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
		[]string{"provider"},
	)

	CompletionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Total number of completion service calls by stage and outcome",
		},
		[]string{"stage", "status"},
	)

	CompletionFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_fallbacks_total",
			Help: "Times an AI-backed stage degraded to its deterministic fallback",
		},
		[]string{"stage"},
	)
)
