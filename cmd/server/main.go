// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopping-assistant/internal/common/cache"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/llm"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/observability"
	"shopping-assistant/internal/pipeline/aggregate"
	"shopping-assistant/internal/pipeline/analyze"
	"shopping-assistant/internal/pipeline/engine"
	"shopping-assistant/internal/pipeline/recommend"
	"shopping-assistant/internal/providers"
	"shopping-assistant/internal/providers/amazon"
	"shopping-assistant/internal/providers/googleshopping"
	"shopping-assistant/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("info", "console")
		fallbackLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting shopping assistant...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Optional completion-response cache ---
	var llmOpts []llm.Option
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = redisClient.Ping(pingCtx)
			cancel()
		}
		if err != nil {
			zapLog.Warn("redis unavailable, continuing without completion cache", zap.Error(err))
		} else {
			zapLog.Info("completion cache enabled", zap.String("address", cfg.Redis.Address))
			llmOpts = append(llmOpts, llm.WithCache(redisClient.GetClient()))
			defer redisClient.Close()
		}
	}

	completions := llm.NewClient(cfg.Completion, log, llmOpts...)
	if !completions.Available() {
		zapLog.Warn("no completion API key configured, AI stages will run on deterministic fallbacks")
	}

	// Provider registration order defines aggregation order.
	provs := []providers.Provider{
		googleshopping.NewClient(googleshopping.ConfigFromApp(cfg.SerpAPI), &googleShoppingLoggerAdapter{log}),
		amazon.NewClient(amazon.ConfigFromApp(cfg.SerpAPI), &amazonLoggerAdapter{log}),
	}

	eng := engine.New(
		analyze.NewAnalyzer(completions, &analyzeLoggerAdapter{log}),
		aggregate.NewAggregator(provs, &aggregateLoggerAdapter{log}),
		recommend.NewRecommender(completions, &recommendLoggerAdapter{log}),
		cfg.SerpAPI.ResultsPerProvider,
		&engineLoggerAdapter{log},
	)

	srv := server.New(cfg.Server, server.NewHandler(eng, obs, log))

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}

// The pipeline packages each declare their own minimal Logger interface, so
// the shared zap-backed logger is bridged with thin adapters that re-type
// the With return value.

type analyzeLoggerAdapter struct {
	logger.Logger
}

func (a *analyzeLoggerAdapter) With(fields map[string]interface{}) analyze.Logger {
	return &analyzeLoggerAdapter{a.Logger.With(fields)}
}

type recommendLoggerAdapter struct {
	logger.Logger
}

func (a *recommendLoggerAdapter) With(fields map[string]interface{}) recommend.Logger {
	return &recommendLoggerAdapter{a.Logger.With(fields)}
}

type aggregateLoggerAdapter struct {
	logger.Logger
}

func (a *aggregateLoggerAdapter) With(fields map[string]interface{}) aggregate.Logger {
	return &aggregateLoggerAdapter{a.Logger.With(fields)}
}

type engineLoggerAdapter struct {
	logger.Logger
}

func (a *engineLoggerAdapter) With(fields map[string]interface{}) engine.Logger {
	return &engineLoggerAdapter{a.Logger.With(fields)}
}

type googleShoppingLoggerAdapter struct {
	logger.Logger
}

func (a *googleShoppingLoggerAdapter) With(fields map[string]interface{}) googleshopping.Logger {
	return &googleShoppingLoggerAdapter{a.Logger.With(fields)}
}

type amazonLoggerAdapter struct {
	logger.Logger
}

func (a *amazonLoggerAdapter) With(fields map[string]interface{}) amazon.Logger {
	return &amazonLoggerAdapter{a.Logger.With(fields)}
}
