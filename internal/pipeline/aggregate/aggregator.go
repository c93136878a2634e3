// internal/pipeline/aggregate/aggregator.go
package aggregate

import (
	"context"
	"sync"

	"shopping-assistant/internal/models"
	"shopping-assistant/internal/providers"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Aggregator fans one keyword search out to every registered provider and
// concatenates the results in registration order, so output is reproducible
// given identical provider responses regardless of which call finishes first.
type Aggregator struct {
	providers []providers.Provider
	logger    Logger
}

// NewAggregator keeps the given provider order; it defines both the fan-out
// order and the concatenation order of the aggregated list.
func NewAggregator(provs []providers.Provider, log Logger) *Aggregator {
	return &Aggregator{
		providers: provs,
		logger: log.With(map[string]interface{}{
			"stage": "aggregate",
		}),
	}
}

// ProviderNames returns the provider names in registration order.
func (a *Aggregator) ProviderNames() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// SearchAll queries every provider concurrently with identical arguments and
// blocks until all have settled. Providers cannot fail outward, so a failed
// provider simply contributes an empty slice for this run. No retries here.
func (a *Aggregator) SearchAll(ctx context.Context, keywords string, perProviderLimit int) []models.Product {
	perProvider := make([][]models.Product, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()
			perProvider[i] = p.Search(ctx, keywords, perProviderLimit)
		}(i, p)
	}
	wg.Wait()

	combined := make([]models.Product, 0, perProviderLimit*len(a.providers))
	for _, products := range perProvider {
		combined = append(combined, products...)
	}

	a.logger.Info("aggregation completed", map[string]interface{}{
		"keywords":     keywords,
		"providers":    len(a.providers),
		"productCount": len(combined),
	})

	return combined
}
