// internal/providers/amazon/config.go
package amazon

import (
	"time"

	"shopping-assistant/internal/common/config"
)

type Config struct {
	BaseURL      string
	APIKey       string
	AmazonDomain string
	Timeout      time.Duration
}

func ConfigFromApp(cfg config.SerpAPIConfig) *Config {
	return &Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		AmazonDomain: "amazon.com",
		Timeout:      cfg.TimeoutDuration(),
	}
}
