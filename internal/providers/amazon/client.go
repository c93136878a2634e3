// internal/providers/amazon/client.go
package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	apperrors "shopping-assistant/internal/common/errors"
	httpclient "shopping-assistant/internal/common/http"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const ProviderName = "Amazon"

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Client struct {
	config *Config
	http   *httpclient.Client
	logger Logger
}

func NewClient(config *Config, log Logger) *Client {
	return &Client{
		config: config,
		http:   httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"provider": ProviderName,
		}),
	}
}

func (c *Client) Name() string {
	return ProviderName
}

// Search queries the amazon engine. Any failure degrades to an empty
// contribution so the other providers are unaffected.
func (c *Client) Search(ctx context.Context, keywords string, limit int) []models.Product {
	products, err := c.search(ctx, keywords, limit)
	if err != nil {
		searchErr := apperrors.NewProviderSearchError(ProviderName, err)
		c.logger.Warn("search failed, returning empty results", map[string]interface{}{
			"keywords": keywords,
			"code":     string(searchErr.Code),
			"error":    searchErr.Details,
		})
		metrics.ProviderSearchesTotal.WithLabelValues(ProviderName, "error").Inc()
		return []models.Product{}
	}

	metrics.ProviderSearchesTotal.WithLabelValues(ProviderName, "success").Inc()
	metrics.ProviderResultsCount.WithLabelValues(ProviderName).Observe(float64(len(products)))
	return products
}

func (c *Client) search(ctx context.Context, keywords string, limit int) ([]models.Product, error) {
	params := url.Values{}
	params.Set("engine", "amazon")
	params.Set("k", keywords)
	params.Set("api_key", c.config.APIKey)
	params.Set("amazon_domain", c.config.AmazonDomain)

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}

	products := make([]models.Product, 0, limit)
	for _, item := range resp.OrganicResults {
		if len(products) >= limit {
			break
		}
		products = append(products, mapResult(item))
	}

	c.logger.Info("search completed", map[string]interface{}{
		"keywords":    keywords,
		"resultCount": len(products),
	})

	return products, nil
}

// mapResult normalizes one raw organic result. It is a pure function: the
// same raw record always maps to an identical Product.
func mapResult(item organicResult) models.Product {
	return models.Product{
		Platform:  models.PlatformAmazon,
		Title:     item.Title,
		Price:     resolvePrice(item.Price),
		Rating:    item.Rating,
		Reviews:   resolveReviews(item),
		Link:      item.Link,
		Thumbnail: item.Thumbnail,
		Source:    ProviderName,
	}
}

// resolvePrice handles both price encodings: a bare string, or an object
// where the display string under raw wins over the numeric extracted value.
func resolvePrice(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var sp structuredPrice
	if err := json.Unmarshal(raw, &sp); err == nil {
		if sp.Raw != "" {
			return sp.Raw
		}
		if sp.Extracted != nil {
			return strconv.FormatFloat(*sp.Extracted, 'f', -1, 64)
		}
	}
	return ""
}

func resolveReviews(item organicResult) int {
	if item.RatingsTotal > 0 {
		return item.RatingsTotal
	}
	if item.Reviews > 0 {
		return item.Reviews
	}
	return 0
}
