// internal/models/product.go
package models

// Platform identifies the catalog a product offer was sourced from.
type Platform string

const (
	PlatformGoogleShopping Platform = "Google Shopping"
	PlatformAmazon         Platform = "Amazon"
)

// Product is the normalized offer shape shared by every provider adapter.
// It is never mutated after an adapter produces it; its position in the
// aggregated list is its identity for the rest of the pipeline.
type Product struct {
	Platform  Platform `json:"platform"`
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Rating    *float64 `json:"rating"`
	Reviews   int      `json:"reviews"`
	Link      string   `json:"link"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
	Delivery  string   `json:"delivery,omitempty"`
}
