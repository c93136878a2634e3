// internal/providers/googleshopping/config.go
package googleshopping

import (
	"time"

	"shopping-assistant/internal/common/config"
)

type Config struct {
	BaseURL      string
	APIKey       string
	GoogleDomain string
	Language     string
	Country      string
	Timeout      time.Duration
}

func ConfigFromApp(cfg config.SerpAPIConfig) *Config {
	return &Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		GoogleDomain: "google.com",
		Language:     "en",
		Country:      "us",
		Timeout:      cfg.TimeoutDuration(),
	}
}
