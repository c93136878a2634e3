// internal/providers/amazon/models.go
package amazon

import "encoding/json"

// searchResponse is the subset of the provider's response shape this adapter
// reads. Results live under organic_results.
type searchResponse struct {
	Error          string          `json:"error"`
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title  string   `json:"title"`
	Rating *float64 `json:"rating"`

	// Price arrives either as a bare string or as an object with raw and
	// extracted sub-fields; kept raw here and resolved during mapping.
	Price json.RawMessage `json:"price"`

	RatingsTotal int `json:"ratings_total"`
	Reviews      int `json:"reviews"`

	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// structuredPrice is the object form of the price field.
type structuredPrice struct {
	Raw       string   `json:"raw"`
	Extracted *float64 `json:"extracted"`
}
