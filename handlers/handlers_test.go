package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"incident-intel-service/service"
	ws "incident-intel-service/websocket"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewIntelHandler(service.New(nil, nil, nil, 30), ws.NewHub())

	router := gin.New()
	api := router.Group("/api/v3")
	api.POST("/analyze_incident", h.AnalyzeIncident)
	router.GET("/health", h.HealthCheck)
	return router
}

func TestAnalyzeIncidentEndpoint(t *testing.T) {
	router := testRouter()

	body := `{
		"title": "Loud karaoke past midnight",
		"description": "Videoke still blasting at 1am, neighbors cannot sleep",
		"location": "Purok 3",
		"created_at": "2026-03-01T01:00:00Z"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v3/analyze_incident", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Classification struct {
			Category   string `json:"category"`
			Confidence int    `json:"confidence"`
		} `json:"classification"`
		Priority struct {
			Score    int    `json:"score"`
			Priority string `json:"priority"`
		} `json:"priority"`
		Suggestions []struct {
			Action string `json:"action"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if resp.Classification.Category != "noise" {
		t.Errorf("category = %s, want noise", resp.Classification.Category)
	}
	// Night report: noise base plus night bonus.
	if resp.Priority.Score != 35 {
		t.Errorf("score = %d, want 35", resp.Priority.Score)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected suggestions in response")
	}
}

func TestAnalyzeIncidentValidation(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty title", `{"title": "", "description": "x", "location": "Purok 1"}`},
		{"bad timestamp", `{"title": "a", "description": "b", "location": "c", "created_at": "yesterday"}`},
		{"malformed json", `{"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v3/analyze_incident", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", resp["status"])
	}
	// No publisher was wired in the test service.
	if connected, ok := resp["rabbitmq_connected"].(bool); !ok || connected {
		t.Errorf("rabbitmq_connected = %v, want false", resp["rabbitmq_connected"])
	}
}
