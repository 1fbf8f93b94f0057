package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"incident-intel-service/assign"
	"incident-intel-service/classifier"
	"incident-intel-service/database"
	"incident-intel-service/metrics"
	"incident-intel-service/models"
	"incident-intel-service/performance"
	"incident-intel-service/priority"
	"incident-intel-service/rabbitmq"
	"incident-intel-service/suggest"
	"incident-intel-service/websocket"
)

// Analysis is the full pipeline output for one incident report.
type Analysis struct {
	Incident       models.IncidentReport       `json:"incident"`
	Classification models.ClassificationResult `json:"classification"`
	Priority       models.PriorityScore        `json:"priority"`
	Suggestions    []models.ResponseSuggestion `json:"suggestions"`
}

// Service orchestrates the analysis pipeline: classification, priority
// scoring, response suggestions, assignment and performance analytics.
type Service struct {
	store       *database.IntelService
	classifier  *classifier.Classifier
	scorer      *priority.Scorer
	suggester   *suggest.Suggester
	recommender *assign.Recommender
	aggregator  *performance.Aggregator
	teamCfg     performance.TeamConfig
	hub         *websocket.Hub
	publisher   *rabbitmq.Publisher
	historyDays int
}

// New creates a Service with default engine configuration. publisher may be
// nil when RabbitMQ is unavailable; analyzed-incident events are then only
// broadcast over websocket.
func New(store *database.IntelService, hub *websocket.Hub, publisher *rabbitmq.Publisher, historyDays int) *Service {
	if historyDays <= 0 {
		historyDays = 30
	}
	return &Service{
		store:       store,
		classifier:  classifier.New(classifier.DefaultConfig()),
		scorer:      priority.New(priority.DefaultConfig()),
		suggester:   suggest.New(suggest.DefaultTemplates()),
		recommender: assign.New(assign.DefaultConfig()),
		aggregator:  performance.New(performance.DefaultConfig()),
		teamCfg:     performance.DefaultTeamConfig(),
		hub:         hub,
		publisher:   publisher,
		historyDays: historyDays,
	}
}

// Analyze runs classification, priority scoring and response suggestions on
// a report without persisting anything. Used by the preview endpoint and as
// the first stage of ProcessIncident.
func (s *Service) Analyze(incident models.IncidentReport) (*Analysis, error) {
	cls, err := s.classifier.Classify(incident.Title, incident.Description)
	if err != nil {
		return nil, err
	}

	ps, err := s.scorer.Score(incident, &cls)
	if err != nil {
		return nil, err
	}

	incident.Category = cls.Category
	incident.Priority = ps.Priority

	suggestions, err := s.suggester.SuggestActions(incident)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Incident:       incident,
		Classification: cls,
		Priority:       ps,
		Suggestions:    suggestions,
	}, nil
}

// ProcessIncident runs the full pipeline on a new report: analyze, persist,
// publish to RabbitMQ and broadcast to websocket dashboards. Publishing is
// best-effort; persistence failures abort the request.
func (s *Service) ProcessIncident(ctx context.Context, incident models.IncidentReport) (*Analysis, error) {
	start := time.Now()

	if incident.ID == "" {
		incident.ID = uuid.New().String()
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}

	analysis, err := s.Analyze(incident)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveIncident(ctx, &analysis.Incident); err != nil {
		return nil, fmt.Errorf("failed to save incident: %w", err)
	}
	if err := s.store.SaveAnalysis(ctx, analysis.Incident.ID, analysis.Classification, analysis.Priority, analysis.Suggestions); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	s.publishAnalyzed(analysis)
	if s.hub != nil {
		s.hub.BroadcastAnalyzedIncident(websocket.AnalyzedIncident{
			Incident:       analysis.Incident,
			Classification: analysis.Classification,
			Priority:       analysis.Priority,
			Suggestions:    analysis.Suggestions,
		})
	}

	metrics.IncidentsAnalyzedTotal.WithLabelValues(
		string(analysis.Classification.Category),
		string(analysis.Priority.Priority),
	).Inc()
	metrics.AnalysisDurationSeconds.Observe(time.Since(start).Seconds())

	log.WithFields(log.Fields{
		"incident_id": analysis.Incident.ID,
		"category":    analysis.Classification.Category,
		"priority":    analysis.Priority.Priority,
		"score":       analysis.Priority.Score,
	}).Info("Incident analyzed")

	return analysis, nil
}

// PublisherConnected reports whether the AMQP publisher currently holds a
// live connection. False when the service runs without RabbitMQ.
func (s *Service) PublisherConnected() bool {
	return s.publisher != nil && s.publisher.IsConnected()
}

func (s *Service) publishAnalyzed(analysis *Analysis) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(analysis); err != nil {
		metrics.PublishErrorTotal.Inc()
		log.WithError(err).WithField("incident_id", analysis.Incident.ID).
			Warn("Failed to publish analyzed incident")
	}
}

// RecommendAssignment fetches the stored incident, the active roster and
// current open-response load, and ranks candidates for dispatch.
func (s *Service) RecommendAssignment(ctx context.Context, incidentID string) (models.AssignmentResult, error) {
	incident, err := s.store.GetIncident(ctx, incidentID)
	if err != nil {
		return models.AssignmentResult{}, fmt.Errorf("failed to load incident: %w", err)
	}
	if incident == nil {
		return models.AssignmentResult{}, ErrIncidentNotFound
	}

	roster, err := s.store.GetRoster(ctx)
	if err != nil {
		return models.AssignmentResult{}, fmt.Errorf("failed to load roster: %w", err)
	}

	openLoad, err := s.store.CountOpenAssignments(ctx)
	if err != nil {
		return models.AssignmentResult{}, fmt.Errorf("failed to count open assignments: %w", err)
	}

	result, err := s.recommender.Recommend(*incident, roster, assign.Context{OpenIncidents: openLoad})
	if err != nil {
		metrics.AssignmentRequestsTotal.WithLabelValues("error").Inc()
		return models.AssignmentResult{}, err
	}

	if result.TopChoice == nil {
		metrics.EmptyRosterTotal.Inc()
		metrics.AssignmentRequestsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.AssignmentRequestsTotal.WithLabelValues("ok").Inc()
	}
	return result, nil
}

// TanodPerformance aggregates one member's performance over the last `days`
// days. days <= 0 falls back to the configured default window.
func (s *Service) TanodPerformance(ctx context.Context, tanodID string, days int) (models.PerformanceMetrics, error) {
	tanod, err := s.store.GetTanod(ctx, tanodID)
	if err != nil {
		return models.PerformanceMetrics{}, fmt.Errorf("failed to load tanod: %w", err)
	}
	if tanod == nil {
		return models.PerformanceMetrics{}, ErrTanodNotFound
	}

	since := s.windowStart(days)
	responses, err := s.store.GetResponsesSince(ctx, tanodID, since)
	if err != nil {
		return models.PerformanceMetrics{}, fmt.Errorf("failed to load responses: %w", err)
	}
	attendance, err := s.store.GetAttendanceSince(ctx, tanodID, since)
	if err != nil {
		return models.PerformanceMetrics{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	return s.aggregator.Aggregate(*tanod, responses, attendance)
}

// TeamPerformance aggregates roster-wide performance over the last `days`
// days.
func (s *Service) TeamPerformance(ctx context.Context, days int) (models.TeamPerformance, error) {
	roster, err := s.store.GetRoster(ctx)
	if err != nil {
		return models.TeamPerformance{}, fmt.Errorf("failed to load roster: %w", err)
	}

	since := s.windowStart(days)
	responses, err := s.store.GetResponsesSince(ctx, "", since)
	if err != nil {
		return models.TeamPerformance{}, fmt.Errorf("failed to load responses: %w", err)
	}
	attendance, err := s.store.GetAttendanceSince(ctx, "", since)
	if err != nil {
		return models.TeamPerformance{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	return s.aggregator.AggregateTeam(roster, responses, attendance, s.teamCfg)
}

// SeedTanods upserts roster members. Used by the internal admin endpoint.
func (s *Service) SeedTanods(ctx context.Context, members []models.TanodMember) error {
	for i := range members {
		if members[i].ID == "" {
			members[i].ID = uuid.New().String()
		}
		if err := s.store.UpsertTanod(ctx, &members[i]); err != nil {
			return fmt.Errorf("failed to upsert tanod %s: %w", members[i].ID, err)
		}
	}
	return nil
}

func (s *Service) windowStart(days int) time.Time {
	if days <= 0 {
		days = s.historyDays
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}
