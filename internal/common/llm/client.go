// internal/common/llm/client.go
package llm

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"shopping-assistant/internal/common/config"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
)

var (
	ErrCompletionTimeout     = errors.New("COMPLETION_TIMEOUT")
	ErrCompletionFailed      = errors.New("COMPLETION_FAILED")
	ErrCompletionUnavailable = errors.New("COMPLETION_UNAVAILABLE")
)

// Client talks to a chat-completion service. Both AI-backed pipeline stages
// share one client; each call is scoped by the caller's context plus the
// configured per-call timeout.
type Client struct {
	config      config.CompletionConfig
	client      *http.Client
	redisClient *redis.Client
	logger      logger.Logger
}

// Option configures optional client collaborators.
type Option func(*Client)

// WithCache enables completion-response caching on the given Redis client.
func WithCache(rdb *redis.Client) Option {
	return func(c *Client) {
		c.redisClient = rdb
	}
}

func NewClient(cfg config.CompletionConfig, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: log.With(map[string]interface{}{
			"component": "completion-client",
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the service can be called at all. Callers fall
// back to their deterministic path when it cannot.
func (c *Client) Available() bool {
	return c.config.APIKey != ""
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system+user prompt pair and returns the raw assistant
// text. The stage label is used for metrics and cache partitioning only.
func (c *Client) Complete(ctx context.Context, stage, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if !c.Available() {
		return "", ErrCompletionUnavailable
	}

	cacheKey := c.cacheKey(stage, systemPrompt, userPrompt)
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		c.logger.Debug("completion cache hit", map[string]interface{}{
			"stage": stage,
		})
		metrics.CompletionRequestsTotal.WithLabelValues(stage, "cache_hit").Inc()
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.TimeoutDuration())
	defer cancel()

	body, _ := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   c.config.MaxTokens,
	})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.CompletionRequestsTotal.WithLabelValues(stage, "timeout").Inc()
				return "", c.timeoutError(stage)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		resp, lastErr = c.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			metrics.CompletionRequestsTotal.WithLabelValues(stage, "timeout").Inc()
			return "", c.timeoutError(stage)
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			metrics.CompletionRequestsTotal.WithLabelValues(stage, "timeout").Inc()
			return "", c.timeoutError(stage)
		}
		metrics.CompletionRequestsTotal.WithLabelValues(stage, "error").Inc()
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, lastErr)
	}

	if resp == nil {
		metrics.CompletionRequestsTotal.WithLabelValues(stage, "error").Inc()
		return "", fmt.Errorf("%w: no successful response after retries", ErrCompletionFailed)
	}
	defer resp.Body.Close()

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(stage, "error").Inc()
		return "", fmt.Errorf("%w: decode error: %v", ErrCompletionFailed, err)
	}
	if len(apiResponse.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(stage, "error").Inc()
		return "", fmt.Errorf("%w: empty choices", ErrCompletionFailed)
	}

	content := apiResponse.Choices[0].Message.Content
	metrics.CompletionRequestsTotal.WithLabelValues(stage, "success").Inc()
	c.cacheSet(ctx, cacheKey, content)

	return content, nil
}

// timeoutError logs the standardized timeout error and returns the sentinel
// callers match on.
func (c *Client) timeoutError(stage string) error {
	serr := apperrors.NewCompletionTimeoutError(stage)
	c.logger.Warn("completion call timed out", map[string]interface{}{
		"stage": stage,
		"code":  string(serr.Code),
	})
	return ErrCompletionTimeout
}

func (c *Client) cacheKey(stage, systemPrompt, userPrompt string) string {
	sum := sha256.Sum256([]byte(c.config.Model + "\x00" + systemPrompt + "\x00" + userPrompt))
	return "completion:" + stage + ":" + hex.EncodeToString(sum[:])
}

func (c *Client) cacheGet(ctx context.Context, key string) (string, bool) {
	if c.redisClient == nil || c.config.CacheTTL <= 0 {
		return "", false
	}
	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) cacheSet(ctx context.Context, key, value string) {
	if c.redisClient == nil || c.config.CacheTTL <= 0 {
		return
	}
	ttl := time.Duration(c.config.CacheTTL) * time.Second
	if err := c.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("completion cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
