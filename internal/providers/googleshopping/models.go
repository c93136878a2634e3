// internal/providers/googleshopping/models.go
package googleshopping

// searchResponse is the subset of the provider's response shape this adapter
// reads. Results live under shopping_results.
type searchResponse struct {
	Error           string           `json:"error"`
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type shoppingResult struct {
	Title   string   `json:"title"`
	Price   string   `json:"price"`
	Rating  *float64 `json:"rating"`
	Reviews int      `json:"reviews"`

	// The product link moves between fields depending on the result type.
	Link        string `json:"link"`
	ProductLink string `json:"product_link"`
	URL         string `json:"url"`
	SourceLink  string `json:"source_link"`

	Thumbnail string `json:"thumbnail"`
	Source    string `json:"source"`
	Delivery  string `json:"delivery"`
}
