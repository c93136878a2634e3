// internal/models/recommendation.go
package models

// Recommendation points at one product in the aggregated list by index.
type Recommendation struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// ValueAssessment labels three products with value tiers, again by index.
type ValueAssessment struct {
	BestValueID int `json:"best_value_id"`
	PremiumID   int `json:"premium_id"`
	BudgetID    int `json:"budget_id"`
}

// RecommendationBundle is the ranked, explained output of the synthesis
// stage. Every index it carries must be valid for the aggregated product
// list it was computed from.
type RecommendationBundle struct {
	TopRecommendations []Recommendation `json:"top_recommendations"`
	Insights           string           `json:"insights"`
	ValueAssessment    ValueAssessment  `json:"value_assessment"`
}
