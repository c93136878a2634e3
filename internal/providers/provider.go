// internal/providers/provider.go
package providers

import (
	"context"

	"shopping-assistant/internal/models"
)

// Provider is an external catalog search service. Implementations own all
// knowledge of their provider's parameter names and response schema.
//
// Search never fails outward: transport or schema errors are logged by the
// implementation and degrade to an empty result, so one provider can never
// block the others. Results are capped at limit entries.
type Provider interface {
	Name() string
	Search(ctx context.Context, keywords string, limit int) []models.Product
}
