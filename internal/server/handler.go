// internal/server/handler.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/observability"
	"shopping-assistant/internal/models"
)

// RecommendationEngine is the single pipeline operation the HTTP layer
// exposes.
type RecommendationEngine interface {
	GetRecommendations(ctx context.Context, rawQuery string) *models.ResponseEnvelope
}

type Handler struct {
	engine RecommendationEngine
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(engine RecommendationEngine, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		engine: engine,
		obs:    obs,
		logger: log.With(map[string]interface{}{
			"component": "http",
		}),
	}
}

type recommendRequest struct {
	Query string `json:"query"`
}

// Recommend handles POST /api/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"success": false,
			"error":   "method not allowed",
		})
		return
	}

	requestID := uuid.NewString()
	log := h.logger.With(map[string]interface{}{
		"requestId": requestID,
	})
	start := time.Now()

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		verr := apperrors.NewValidationError(err.Error())
		log.Warn("rejected malformed request body", map[string]interface{}{
			"code":  string(verr.Code),
			"error": verr.Details,
		})
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Please provide a valid query",
		})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		verr := apperrors.NewValidationError("query must be a non-empty string")
		log.Warn("rejected empty query", map[string]interface{}{
			"code": string(verr.Code),
		})
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Please provide a valid query",
		})
		return
	}

	envelope := h.engine.GetRecommendations(r.Context(), query)

	status := http.StatusOK
	outcome := "success"
	if !envelope.Success {
		status = http.StatusInternalServerError
		outcome = "failure"
	}

	if h.obs != nil {
		h.obs.RecordRequest(r.Context(), outcome)
		h.obs.RecordRequestDuration(r.Context(), time.Since(start), outcome)
	}
	log.Info("request handled", map[string]interface{}{
		"query":      query,
		"success":    envelope.Success,
		"durationMs": time.Since(start).Milliseconds(),
	})

	writeJSON(w, status, envelope)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
