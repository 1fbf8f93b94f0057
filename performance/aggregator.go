package performance

import (
	"fmt"
	"math"
	"strings"

	"incident-intel-service/models"
)

// Config holds the performance scoring weights and thresholds.
type Config struct {
	// Weighted blend of the three score components; the weights should
	// sum to 1.
	ResolutionWeight float64
	AttendanceWeight float64
	ResponseWeight   float64

	// Response-time normalization: an average at or under FastMinutes
	// scores ResponseCeiling, at or over SlowMinutes it scores
	// ResponseFloor, linear in between.
	FastMinutes     float64
	SlowMinutes     float64
	ResponseFloor   float64
	ResponseCeiling float64

	// Strength / improvement thresholds per sub-metric.
	StrongResolutionRate float64
	WeakResolutionRate   float64
	StrongAttendanceRate float64
	WeakAttendanceRate   float64
	FastResponseMinutes  float64
	SlowResponseMinutes  float64
}

// DefaultConfig returns the built-in performance tuning.
func DefaultConfig() Config {
	return Config{
		ResolutionWeight: 0.40,
		AttendanceWeight: 0.30,
		ResponseWeight:   0.30,

		FastMinutes:     5,
		SlowMinutes:     60,
		ResponseFloor:   20,
		ResponseCeiling: 100,

		StrongResolutionRate: 85,
		WeakResolutionRate:   50,
		StrongAttendanceRate: 90,
		WeakAttendanceRate:   70,
		FastResponseMinutes:  10,
		SlowResponseMinutes:  30,
	}
}

// Aggregator folds a tanod's incident-response and attendance history into
// performance metrics. It holds only immutable configuration and is safe
// for concurrent use.
type Aggregator struct {
	cfg Config
}

// New creates an aggregator from the given configuration.
func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes resolution rate, attendance rate, average response
// time and the blended overall score for one tanod. Empty histories are a
// well-defined input: every rate is 0 and the overall score follows from
// zeros, never a division error.
func (a *Aggregator) Aggregate(tanod models.TanodMember, responses []models.IncidentResponse, attendance []models.AttendanceRecord) (models.PerformanceMetrics, error) {
	if strings.TrimSpace(tanod.ID) == "" {
		return models.PerformanceMetrics{}, models.Validationf("id", "must not be empty")
	}

	totalResponses := len(responses)
	resolved := 0
	respondedCount := 0
	var responseMinutes float64
	for _, resp := range responses {
		if resp.ResolvedAt != nil {
			resolved++
		}
		if resp.RespondedAt != nil {
			respondedCount++
			responseMinutes += resp.RespondedAt.Sub(resp.ReportedAt).Minutes()
		}
	}

	resolutionRate := 0.0
	if totalResponses > 0 {
		resolutionRate = float64(resolved) / float64(totalResponses) * 100
	}

	avgResponseTime := 0.0
	if respondedCount > 0 {
		avgResponseTime = responseMinutes / float64(respondedCount)
	}

	totalShifts := len(attendance)
	completedShifts := 0
	for _, rec := range attendance {
		if rec.Status == models.AttendanceAbsent {
			continue
		}
		// Still-open shifts (no clock-out yet) do not count as completed.
		if rec.ClockOut != nil {
			completedShifts++
		}
	}

	attendanceRate := 0.0
	if totalShifts > 0 {
		attendanceRate = float64(completedShifts) / float64(totalShifts) * 100
	}

	responseScore := 0.0
	if respondedCount > 0 {
		responseScore = a.responseTimeScore(avgResponseTime)
	}

	overall := a.cfg.ResolutionWeight*resolutionRate +
		a.cfg.AttendanceWeight*attendanceRate +
		a.cfg.ResponseWeight*responseScore
	overall = round1(overall)

	metrics := models.MetricValues{
		ResolutionRate:    round1(resolutionRate),
		AttendanceRate:    round1(attendanceRate),
		AvgResponseTime:   round1(avgResponseTime),
		TotalResponses:    totalResponses,
		ResolvedIncidents: resolved,
		CompletedShifts:   completedShifts,
		TotalShifts:       totalShifts,
	}

	strengths, improvements := a.qualitative(metrics, respondedCount)
	insights := make([]models.Insight, 0, len(improvements))
	for _, imp := range improvements {
		insights = append(insights, models.Insight{Recommendation: imp})
	}

	return models.PerformanceMetrics{
		TanodID:      tanod.ID,
		OverallScore: overall,
		Rating:       round1(overall / 20),
		Metrics:      metrics,
		Strengths:    strengths,
		Improvements: improvements,
		Insights:     insights,
	}, nil
}

// responseTimeScore maps an average response time in minutes to a 0-100
// component: faster is higher, with a floor and a ceiling.
func (a *Aggregator) responseTimeScore(avgMinutes float64) float64 {
	if avgMinutes <= a.cfg.FastMinutes {
		return a.cfg.ResponseCeiling
	}
	if avgMinutes >= a.cfg.SlowMinutes {
		return a.cfg.ResponseFloor
	}
	span := a.cfg.SlowMinutes - a.cfg.FastMinutes
	scale := a.cfg.ResponseCeiling - a.cfg.ResponseFloor
	return a.cfg.ResponseCeiling - (avgMinutes-a.cfg.FastMinutes)/span*scale
}

func (a *Aggregator) qualitative(m models.MetricValues, respondedCount int) (strengths, improvements []string) {
	strengths = []string{}
	improvements = []string{}

	if m.TotalResponses > 0 {
		if m.ResolutionRate >= a.cfg.StrongResolutionRate {
			strengths = append(strengths, fmt.Sprintf("High resolution rate (%.1f%%)", m.ResolutionRate))
		} else if m.ResolutionRate < a.cfg.WeakResolutionRate {
			improvements = append(improvements, "Follow through on assigned incidents until they are resolved")
		}
	}

	if m.TotalShifts > 0 {
		if m.AttendanceRate >= a.cfg.StrongAttendanceRate {
			strengths = append(strengths, fmt.Sprintf("Reliable attendance (%.1f%%)", m.AttendanceRate))
		} else if m.AttendanceRate < a.cfg.WeakAttendanceRate {
			improvements = append(improvements, "Improve shift attendance and complete scheduled shifts")
		}
	}

	if respondedCount > 0 {
		if m.AvgResponseTime <= a.cfg.FastResponseMinutes {
			strengths = append(strengths, fmt.Sprintf("Fast response time (%.1f min average)", m.AvgResponseTime))
		} else if m.AvgResponseTime > a.cfg.SlowResponseMinutes {
			improvements = append(improvements, "Reduce time between dispatch and arrival on scene")
		}
	}

	return strengths, improvements
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
