// internal/providers/googleshopping/client.go
package googleshopping

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	apperrors "shopping-assistant/internal/common/errors"
	httpclient "shopping-assistant/internal/common/http"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const ProviderName = "Google Shopping"

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

// Search queries the google_shopping engine. Any failure degrades to an
// empty contribution so the other providers are unaffected.
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
	params.Set("engine", "google_shopping")
	params.Set("q", keywords)
	params.Set("api_key", c.config.APIKey)
	params.Set("google_domain", c.config.GoogleDomain)
	params.Set("hl", c.config.Language)
	params.Set("gl", c.config.Country)
	params.Set("num", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}

	products := make([]models.Product, 0, limit)
	for _, item := range resp.ShoppingResults {
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

// mapResult normalizes one raw shopping result. It is a pure function: the
// same raw record always maps to an identical Product.
func mapResult(item shoppingResult) models.Product {
	return models.Product{
		Platform:  models.PlatformGoogleShopping,
		Title:     item.Title,
		Price:     item.Price,
		Rating:    item.Rating,
		Reviews:   item.Reviews,
		Link:      resolveLink(item),
		Thumbnail: item.Thumbnail,
		Source:    item.Source,
		Delivery:  item.Delivery,
	}
}

// resolveLink tries the known link fields in fixed priority order and takes
// the first one present.
func resolveLink(item shoppingResult) string {
	for _, candidate := range []string{item.Link, item.ProductLink, item.URL, item.SourceLink} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
