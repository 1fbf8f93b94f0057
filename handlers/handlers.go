package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"incident-intel-service/models"
	"incident-intel-service/service"
	ws "incident-intel-service/websocket"
)

// IntelHandler contains all HTTP handlers for the intelligence service.
type IntelHandler struct {
	svc *service.Service
	hub *ws.Hub
}

// NewIntelHandler creates a new handlers instance.
func NewIntelHandler(svc *service.Service, hub *ws.Hub) *IntelHandler {
	return &IntelHandler{svc: svc, hub: hub}
}

// IncidentRequest is the payload for report_incident and analyze_incident.
type IncidentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (r *IncidentRequest) toIncident() (models.IncidentReport, error) {
	incident := models.IncidentReport{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
	}
	if r.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return incident, models.Validationf("created_at", "must be RFC3339, got %q", r.CreatedAt)
		}
		incident.CreatedAt = ts
	}
	return incident, nil
}

// ReportIncident runs the full pipeline on a new report and persists it.
func (h *IntelHandler) ReportIncident(c *gin.Context) {
	var req IncidentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	incident, err := req.toIncident()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.svc.ProcessIncident(c.Request.Context(), incident)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to process incident")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process incident"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// AnalyzeIncident runs the pipeline without persisting anything. Lets the
// portal preview classification and suggested actions while the reporter is
// still typing.
func (h *IntelHandler) AnalyzeIncident(c *gin.Context) {
	var req IncidentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	incident, err := req.toIncident()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}

	analysis, err := h.svc.Analyze(incident)
	if err != nil {
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to analyze incident")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze incident"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// AssignmentRecommendations ranks active tanods for a stored incident.
func (h *IntelHandler) AssignmentRecommendations(c *gin.Context) {
	incidentID := c.Param("id")
	if incidentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incident ID is required"})
		return
	}

	result, err := h.svc.RecommendAssignment(c.Request.Context(), incidentID)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		if models.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).WithField("incident_id", incidentID).
			Error("Failed to compute assignment recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// TanodPerformance aggregates one member's metrics over a history window.
// Query param days overrides the default window.
func (h *IntelHandler) TanodPerformance(c *gin.Context) {
	tanodID := c.Param("id")
	if tanodID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tanod ID is required"})
		return
	}

	days, ok := parseDays(c)
	if !ok {
		return
	}

	perf, err := h.svc.TanodPerformance(c.Request.Context(), tanodID, days)
	if err != nil {
		if errors.Is(err, service.ErrTanodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tanod not found"})
			return
		}
		log.WithError(err).WithField("tanod_id", tanodID).
			Error("Failed to aggregate tanod performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate performance"})
		return
	}

	c.JSON(http.StatusOK, perf)
}

// TeamPerformance aggregates roster-wide metrics over a history window.
func (h *IntelHandler) TeamPerformance(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	team, err := h.svc.TeamPerformance(c.Request.Context(), days)
	if err != nil {
		log.WithError(err).Error("Failed to aggregate team performance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate team performance"})
		return
	}

	c.JSON(http.StatusOK, team)
}

// SeedTanods upserts roster members. Internal admin only.
func (h *IntelHandler) SeedTanods(c *gin.Context) {
	var members []models.TanodMember
	if err := c.BindJSON(&members); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if len(members) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one tanod is required"})
		return
	}

	for i := range members {
		if members[i].Status == "" {
			members[i].Status = models.TanodActive
		}
		if _, err := models.ParseTanodStatus(string(members[i].Status)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.svc.SeedTanods(c.Request.Context(), members); err != nil {
		log.WithError(err).Error("Failed to seed tanods")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed tanods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"seeded": len(members)})
}

// HealthCheck returns the service health status.
func (h *IntelHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "incident-intel-service",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"connected_clients":  h.hub.ClientCount(),
		"rabbitmq_connected": h.svc.PublisherConnected(),
	})
}

// WebSocket upgrader
var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		// In production, you should implement proper origin checking
		return true
	},
}

// ListenIncidents handles WebSocket connections for analyzed-incident events.
func (h *IntelHandler) ListenIncidents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("Failed to upgrade connection to WebSocket")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established")
}

func parseDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return 0, false
	}
	return days, true
}
