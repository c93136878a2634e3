// internal/server/handler_test.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"
)

type stubEngine struct {
	envelope *models.ResponseEnvelope
	gotQuery string
	called   bool
}

func (s *stubEngine) GetRecommendations(ctx context.Context, rawQuery string) *models.ResponseEnvelope {
	s.called = true
	s.gotQuery = rawQuery
	return s.envelope
}

func newTestHandler(t *testing.T, engine *stubEngine) *Handler {
	t.Helper()
	return NewHandler(engine, nil, logger.NewTestLogger(t))
}

func postRecommend(handler *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Recommend(rec, req)
	return rec
}

func TestRecommend_Success(t *testing.T) {
	engine := &stubEngine{envelope: &models.ResponseEnvelope{
		Success:  true,
		Message:  "Found 2 products across Google Shopping and Amazon",
		Products: []models.Product{{Title: "Desk A"}, {Title: "Desk B"}},
	}}
	handler := newTestHandler(t, engine)

	rec := postRecommend(handler, `{"query":"standing desk"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "standing desk", engine.gotQuery)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Products, 2)
}

func TestRecommend_TrimsQuery(t *testing.T) {
	engine := &stubEngine{envelope: &models.ResponseEnvelope{Success: true}}
	handler := newTestHandler(t, engine)

	postRecommend(handler, `{"query":"  standing desk  "}`)
	assert.Equal(t, "standing desk", engine.gotQuery)
}

func TestRecommend_EmptyQueryRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing query field", body: `{}`},
		{name: "empty string", body: `{"query":""}`},
		{name: "whitespace only", body: `{"query":"   "}`},
		{name: "malformed JSON", body: `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubEngine{}
			handler := newTestHandler(t, engine)

			rec := postRecommend(handler, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, engine.called, "engine must not run for invalid requests")

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "Please provide a valid query", resp["error"])
		})
	}
}

func TestRecommend_FailureEnvelopeReturns500(t *testing.T) {
	engine := &stubEngine{envelope: &models.ResponseEnvelope{
		Success: false,
		Message: "An error occurred while processing your request.",
		Error:   "boom",
	}}
	handler := newTestHandler(t, engine)

	rec := postRecommend(handler, `{"query":"standing desk"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope models.ResponseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "boom", envelope.Error)
}

func TestRecommend_MethodNotAllowed(t *testing.T) {
	engine := &stubEngine{}
	handler := newTestHandler(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/recommend", nil)
	rec := httptest.NewRecorder()
	handler.Recommend(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, engine.called)
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, &stubEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}
