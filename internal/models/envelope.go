// internal/models/envelope.go
package models

// ResponseEnvelope is the only artifact returned to the caller. It is built
// once per request and never persisted.
type ResponseEnvelope struct {
	Success         bool                  `json:"success"`
	Message         string                `json:"message"`
	Analysis        *SearchIntent         `json:"analysis"`
	Products        []Product             `json:"products"`
	Recommendations *RecommendationBundle `json:"recommendations"`
	Error           string                `json:"error,omitempty"`
}
