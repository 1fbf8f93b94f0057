package models

import (
	"fmt"
	"time"
)

// Category is the incident category taxonomy used across the engine.
type Category string

const (
	CategoryCrime   Category = "crime"
	CategoryNoise   Category = "noise"
	CategoryDispute Category = "dispute"
	CategoryHazard  Category = "hazard"
	CategoryHealth  Category = "health"
	CategoryUtility Category = "utility"
	CategoryOther   Category = "other"
)

// Categories lists every valid category, in no particular order.
var Categories = []Category{
	CategoryCrime,
	CategoryNoise,
	CategoryDispute,
	CategoryHazard,
	CategoryHealth,
	CategoryUtility,
	CategoryOther,
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	for _, valid := range Categories {
		if c == valid {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", s)}
}

// Priority is the discrete priority tier of an incident.
type Priority string

const (
	PriorityMinor     Priority = "minor"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

// ParsePriority validates a raw priority string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	switch p {
	case PriorityMinor, PriorityUrgent, PriorityEmergency:
		return p, nil
	}
	return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", s)}
}

// TanodStatus is the duty status of a patrol member.
type TanodStatus string

const (
	TanodActive   TanodStatus = "active"
	TanodInactive TanodStatus = "inactive"
	TanodOnLeave  TanodStatus = "on-leave"
)

// ParseTanodStatus validates a raw tanod status string.
func ParseTanodStatus(s string) (TanodStatus, error) {
	st := TanodStatus(s)
	switch st {
	case TanodActive, TanodInactive, TanodOnLeave:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown tanod status %q", s)}
}

// Shift is a patrol shift window.
type Shift string

const (
	ShiftDay   Shift = "day"
	ShiftNight Shift = "night"
	ShiftOff   Shift = "off"
)

// AttendanceStatus is the status of a single attendance record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceOnDuty  AttendanceStatus = "on-duty"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// IncidentReport is a community incident as reported. Category and priority
// are optional on input; the engine derives them without mutating the report.
type IncidentReport struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category,omitempty"`
	Priority    Priority  `json:"priority,omitempty"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// TanodMember is a patrol member candidate for incident assignment.
type TanodMember struct {
	ID                      string      `json:"id"`
	DisplayName             string      `json:"display_name"`
	Status                  TanodStatus `json:"status"`
	AssignedAreas           []string    `json:"assigned_areas"`
	CurrentShift            Shift       `json:"current_shift"`
	Rating                  float64     `json:"rating"`
	TotalIncidentsResponded int         `json:"total_incidents_responded"`
}

// AttendanceRecord is a single shift attendance entry for a tanod.
// ClockOut and TotalHours stay nil while the tanod is still clocked in.
type AttendanceRecord struct {
	TanodID    string           `json:"tanod_id"`
	Date       time.Time        `json:"date"`
	ClockIn    time.Time        `json:"clock_in"`
	ClockOut   *time.Time       `json:"clock_out,omitempty"`
	TotalHours *float64         `json:"total_hours,omitempty"`
	Status     AttendanceStatus `json:"status"`
}

// IncidentResponse records one tanod's response to one incident.
// RespondedAt/ResolvedAt stay nil until the respective event happened.
type IncidentResponse struct {
	TanodID     string     `json:"tanod_id"`
	IncidentID  string     `json:"incident_id"`
	ReportedAt  time.Time  `json:"reported_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Severity    Priority   `json:"severity"`
}

// ClassificationResult is the classifier output for one report.
type ClassificationResult struct {
	Category            Category   `json:"category"`
	Confidence          int        `json:"confidence"`
	SuggestedCategories []Category `json:"suggested_categories"`
}

// PriorityScore is the scored priority of an incident. Factors holds every
// named additive contribution; their sum equals Score.
type PriorityScore struct {
	Score    int            `json:"score"`
	Priority Priority       `json:"priority"`
	Factors  map[string]int `json:"factors"`
}

// ResponseSuggestion is a single recommended action step.
type ResponseSuggestion struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Urgent   bool   `json:"urgent"`
}

// AssignmentRecommendation ranks one tanod for an incident.
type AssignmentRecommendation struct {
	Tanod       TanodMember `json:"tanod"`
	Confidence  int         `json:"confidence"`
	MatchReason string      `json:"match_reason"`
}

// AssignmentResult is the full recommender output. TopChoice is nil when no
// active candidate was available.
type AssignmentResult struct {
	Recommendations []AssignmentRecommendation `json:"recommendations"`
	TopChoice       *AssignmentRecommendation  `json:"top_choice"`
}

// MetricValues are the raw sub-metrics behind a performance score.
type MetricValues struct {
	ResolutionRate    float64 `json:"resolution_rate"`
	AttendanceRate    float64 `json:"attendance_rate"`
	AvgResponseTime   float64 `json:"avg_response_time"`
	TotalResponses    int     `json:"total_responses"`
	ResolvedIncidents int     `json:"resolved_incidents"`
	CompletedShifts   int     `json:"completed_shifts"`
	TotalShifts       int     `json:"total_shifts"`
}

// Insight is a single actionable recommendation derived from metrics.
type Insight struct {
	Recommendation string `json:"recommendation"`
}

// PerformanceMetrics is the aggregated performance of one tanod.
type PerformanceMetrics struct {
	TanodID      string       `json:"tanod_id"`
	OverallScore float64      `json:"overall_score"`
	Rating       float64      `json:"rating"`
	Metrics      MetricValues `json:"metrics"`
	Strengths    []string     `json:"strengths"`
	Improvements []string     `json:"improvements"`
	Insights     []Insight    `json:"insights"`
}

// PerformanceDistribution buckets member scores by fixed thresholds.
type PerformanceDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// TeamPerformance is the roster-wide performance aggregate.
type TeamPerformance struct {
	OverallScore        float64                 `json:"overall_score"`
	AvgResponseTime     float64                 `json:"avg_response_time"`
	AvgResolutionRate   float64                 `json:"avg_resolution_rate"`
	TotalIncidents      int                     `json:"total_incidents"`
	CapacityUtilization float64                 `json:"capacity_utilization"`
	Distribution        PerformanceDistribution `json:"performance_distribution"`
	Insights            []string                `json:"insights"`
	Recommendations     []string                `json:"recommendations"`
}
