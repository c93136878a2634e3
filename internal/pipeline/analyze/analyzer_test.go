// internal/pipeline/analyze/analyzer_test.go
package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/llm"
	"shopping-assistant/internal/common/logger"
)

type testLogger struct{}

func (l *testLogger) Info(msg string, fields map[string]interface{}) {}
func (l *testLogger) Warn(msg string, fields map[string]interface{}) {}
func (l *testLogger) With(fields map[string]interface{}) Logger { return l }

func completionClient(t *testing.T, content string) *llm.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)

	return llm.NewClient(config.CompletionConfig{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		Model:     "gpt-3.5-turbo",
		Timeout:   2000,
		MaxTokens: 500,
	}, logger.NewTestLogger(t))
}

func unavailableClient(t *testing.T) *llm.Client {
	t.Helper()
	return llm.NewClient(config.CompletionConfig{
		BaseURL: "http://localhost:0",
		Timeout: 2000,
	}, logger.NewTestLogger(t))
}

func TestAnalyze_WithCompletion(t *testing.T) {
	client := completionClient(t, `{"category":"standing desk","features":["adjustable","electric"],"price_range":"under $500","use_case":"office work","search_keywords":"standing desk adjustable"}`)
	analyzer := NewAnalyzer(client, &testLogger{})

	intent := analyzer.Analyze(context.Background(), "I need a standing desk under $500")
	require.NotNil(t, intent)
	assert.Equal(t, "standing desk", intent.Category)
	assert.Equal(t, []string{"adjustable", "electric"}, intent.Features)
	assert.Equal(t, "under $500", intent.PriceRange)
	assert.Equal(t, "office work", intent.UseCase)
	assert.Equal(t, "standing desk adjustable", intent.SearchKeywords)
}

func TestAnalyze_FencedPayload(t *testing.T) {
	client := completionClient(t, "```json\n{\"category\":\"laptop\",\"search_keywords\":\"laptop gaming\"}\n```")
	analyzer := NewAnalyzer(client, &testLogger{})

	intent := analyzer.Analyze(context.Background(), "gaming laptop")
	assert.Equal(t, "laptop", intent.Category)
	assert.Equal(t, "laptop gaming", intent.SearchKeywords)
}

func TestAnalyze_CoercesMissingFields(t *testing.T) {
	client := completionClient(t, `{"category":"headphones"}`)
	analyzer := NewAnalyzer(client, &testLogger{})

	intent := analyzer.Analyze(context.Background(), "wireless headphones")
	assert.Equal(t, "headphones", intent.Category)
	assert.Equal(t, []string{}, intent.Features)
	assert.Equal(t, "", intent.PriceRange)
	assert.Equal(t, "wireless headphones", intent.UseCase)
	assert.Equal(t, "wireless headphones", intent.SearchKeywords)
}

func TestAnalyze_FallsBackOnGarbageOutput(t *testing.T) {
	client := completionClient(t, "I am sorry, I cannot help with that.")
	analyzer := NewAnalyzer(client, &testLogger{})

	intent := analyzer.Analyze(context.Background(), "I need a standing desk under $500")
	require.NotNil(t, intent)
	assert.Equal(t, "standing", intent.Category)
	assert.Equal(t, "$500", intent.PriceRange)
	assert.Equal(t, "I need a standing desk under $500", intent.SearchKeywords)
}

func TestAnalyze_FallsBackOnWrongTypes(t *testing.T) {
	client := completionClient(t, `{"category":42,"features":"adjustable"}`)
	analyzer := NewAnalyzer(client, &testLogger{})

	intent := analyzer.Analyze(context.Background(), "standing desk")
	assert.Equal(t, "standing", intent.Category)
}

func TestAnalyze_FallsBackWhenUnavailable(t *testing.T) {
	analyzer := NewAnalyzer(unavailableClient(t), &testLogger{})

	intent := analyzer.Analyze(context.Background(), "wireless headphones for running")
	require.NotNil(t, intent)
	assert.Equal(t, "wireless", intent.Category)
	assert.Equal(t, []string{"wireless", "headphones", "running"}, intent.Features)
}

func TestFallbackIntent(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		features []string
		price    string
	}{
		{
			name:     "standing desk with dollar amount",
			query:    "I need a standing desk under $500",
			category: "standing",
			features: []string{"standing"},
			price:    "$500",
		},
		{
			name:     "stop words skipped for category",
			query:    "looking for a coffee maker",
			category: "coffee",
			features: []string{"coffee", "maker"},
		},
		{
			name:     "dollars phrase",
			query:    "headphones around 100 dollars",
			category: "headphones",
			features: []string{"headphones", "around", "dollars"},
			price:    "100 dollars",
		},
		{
			name:     "under without dollar sign",
			query:    "tablet under 300",
			category: "tablet",
			features: []string{"tablet"},
			price:    "under 300",
		},
		{
			name:     "no usable words",
			query:    "a an the",
			category: "product",
			features: []string{},
		},
		{
			name:     "empty query",
			query:    "",
			category: "product",
			features: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := FallbackIntent(tt.query)
			assert.Equal(t, tt.category, intent.Category)
			assert.Equal(t, tt.features, intent.Features)
			assert.Equal(t, tt.price, intent.PriceRange)
			assert.Equal(t, tt.query, intent.UseCase)
			assert.Equal(t, tt.query, intent.SearchKeywords)
		})
	}
}

func TestFallbackIntent_Deterministic(t *testing.T) {
	first := FallbackIntent("standing desk under $500")
	second := FallbackIntent("standing desk under $500")
	assert.Equal(t, first, second)
}
