// internal/models/intent.go
package models

// SearchIntent is the structured interpretation of a free-form shopping
// query. Produced once per request by the analyzer and immutable afterwards.
type SearchIntent struct {
	Category       string   `json:"category"`
	Features       []string `json:"features"`
	PriceRange     string   `json:"price_range,omitempty"`
	UseCase        string   `json:"use_case"`
	SearchKeywords string   `json:"search_keywords"`
}
