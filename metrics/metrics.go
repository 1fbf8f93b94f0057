package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// IncidentsAnalyzedTotal counts completed analysis pipelines by
	// resulting category and priority tier.
	IncidentsAnalyzedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "incidents_analyzed_total",
		Help:      "Total number of incident reports run through the analysis pipeline, labeled by category and priority.",
	}, []string{"category", "priority"})

	// AnalysisDurationSeconds is end-to-end time of the classify/score/suggest pipeline.
	AnalysisDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time of the incident analysis pipeline including persistence.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	// AssignmentRequestsTotal counts assignment recommendation requests by outcome.
	AssignmentRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "assignment_requests_total",
		Help:      "Total number of assignment recommendation requests, labeled by result.",
	}, []string{"result"})

	// EmptyRosterTotal counts assignment requests that found no active candidate.
	EmptyRosterTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "assignment_empty_roster_total",
		Help:      "Total number of assignment requests where no active tanod was available.",
	})

	// WebsocketClients is the current number of connected dashboard clients.
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "websocket_clients",
		Help:      "Current number of connected websocket dashboard clients.",
	})

	// PublishErrorTotal counts AMQP publish failures for analyzed incidents.
	PublishErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "barangay",
		Subsystem: "intel",
		Name:      "amqp_publish_error_total",
		Help:      "Total number of failed AMQP publishes of analyzed incidents.",
	})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			IncidentsAnalyzedTotal,
			AnalysisDurationSeconds,
			AssignmentRequestsTotal,
			EmptyRosterTotal,
			WebsocketClients,
			PublishErrorTotal,
		)
	})
}
