// internal/common/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "shopping-assistant", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Completion.BaseURL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Completion.Model)
	assert.Equal(t, 30000, cfg.Completion.Timeout)
	assert.Equal(t, 2, cfg.Completion.MaxRetries)
	assert.Equal(t, "https://serpapi.com/search", cfg.SerpAPI.BaseURL)
	assert.Equal(t, 5, cfg.SerpAPI.ResultsPerProvider)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Completion.Model = "gpt-4"
	applyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gpt-4", cfg.Completion.Model)
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("SERPAPI_KEY", "env-serp")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg := &Config{}
	overrideFromEnv(cfg)

	assert.Equal(t, "env-openai", cfg.Completion.APIKey)
	assert.Equal(t, "env-serp", cfg.SerpAPI.APIKey)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestOverrideFromEnv_ConfigValueWins(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "env-serp")

	cfg := &Config{}
	cfg.SerpAPI.APIKey = "file-serp"
	overrideFromEnv(cfg)

	assert.Equal(t, "file-serp", cfg.SerpAPI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	assert.Error(t, validateConfig(cfg), "missing serpapi key must be rejected")

	cfg.SerpAPI.APIKey = "key"
	assert.NoError(t, validateConfig(cfg), "completion key is optional")

	cfg.Server.Port = 70000
	assert.Error(t, validateConfig(cfg))
}

func TestTimeoutDurations(t *testing.T) {
	assert.Equal(t, 30*time.Second, CompletionConfig{Timeout: 30000}.TimeoutDuration())
	assert.Equal(t, 15*time.Second, SerpAPIConfig{Timeout: 15000}.TimeoutDuration())
}

func TestRedisEnabled(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Address: "localhost:6379"}.Enabled())
}
