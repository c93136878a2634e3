// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like COMPLETION_API_KEY / SERPAPI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from a few likely locations so the binary can be
// started from the repo root, cmd/server, or a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopping-assistant"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "gpt-3.5-turbo"
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 30000
	}
	if cfg.Completion.MaxRetries == 0 {
		cfg.Completion.MaxRetries = 2
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 1000
	}
	if cfg.SerpAPI.BaseURL == "" {
		cfg.SerpAPI.BaseURL = "https://serpapi.com/search"
	}
	if cfg.SerpAPI.Timeout == 0 {
		cfg.SerpAPI.Timeout = 15000
	}
	if cfg.SerpAPI.ResultsPerProvider == 0 {
		cfg.SerpAPI.ResultsPerProvider = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideFromEnv fills credentials that are usually supplied as plain
// environment variables rather than through the yaml tree.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Completion.APIKey == "" {
		cfg.Completion.APIKey = key
	}
	if key := os.Getenv("SERPAPI_KEY"); key != "" && cfg.SerpAPI.APIKey == "" {
		cfg.SerpAPI.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" && cfg.Redis.Address == "" {
		cfg.Redis.Address = addr
	}
}

func validateConfig(cfg *Config) error {
	if cfg.SerpAPI.APIKey == "" {
		return fmt.Errorf("serpapi api_key is required (set SERPAPI_KEY)")
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", cfg.Server.Port)
	}
	// The completion key is optional: without it both AI stages run on their
	// deterministic fallbacks.
	return nil
}
