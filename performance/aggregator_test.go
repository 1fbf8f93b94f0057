package performance

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"incident-intel-service/models"
)

func tanod(id string) models.TanodMember {
	return models.TanodMember{ID: id, DisplayName: id, Status: models.TanodActive}
}

func response(tanodID string, reported time.Time, respondAfter, resolveAfter time.Duration) models.IncidentResponse {
	resp := models.IncidentResponse{
		TanodID:    tanodID,
		IncidentID: "incident-" + tanodID,
		ReportedAt: reported,
		Severity:   models.PriorityUrgent,
	}
	if respondAfter > 0 {
		t := reported.Add(respondAfter)
		resp.RespondedAt = &t
	}
	if resolveAfter > 0 {
		t := reported.Add(resolveAfter)
		resp.ResolvedAt = &t
	}
	return resp
}

func shift(tanodID string, day time.Time, status models.AttendanceStatus, clockedOut bool) models.AttendanceRecord {
	rec := models.AttendanceRecord{
		TanodID: tanodID,
		Date:    day,
		ClockIn: day.Add(18 * time.Hour),
		Status:  status,
	}
	if clockedOut {
		out := day.Add(26 * time.Hour)
		hours := 8.0
		rec.ClockOut = &out
		rec.TotalHours = &hours
	}
	return rec
}

func TestAggregate(t *testing.T) {
	a := New(DefaultConfig())
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	got, err := a.Aggregate(tanod("t1"), []models.IncidentResponse{
		response("t1", base, 4*time.Minute, time.Hour),
		response("t1", base.Add(24*time.Hour), 6*time.Minute, 0),
		response("t1", base.Add(48*time.Hour), 0, 0),
	}, []models.AttendanceRecord{
		shift("t1", base, models.AttendancePresent, true),
		shift("t1", base.Add(24*time.Hour), models.AttendanceLate, true),
		shift("t1", base.Add(48*time.Hour), models.AttendanceAbsent, false),
		shift("t1", base.Add(72*time.Hour), models.AttendanceOnDuty, false),
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if got.Metrics.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", got.Metrics.TotalResponses)
	}
	if got.Metrics.ResolvedIncidents != 1 {
		t.Errorf("ResolvedIncidents = %d, want 1", got.Metrics.ResolvedIncidents)
	}
	if want := 33.3; got.Metrics.ResolutionRate != want {
		t.Errorf("ResolutionRate = %.1f, want %.1f", got.Metrics.ResolutionRate, want)
	}
	// Unresponded incident excluded from the average: (4 + 6) / 2.
	if want := 5.0; got.Metrics.AvgResponseTime != want {
		t.Errorf("AvgResponseTime = %.1f, want %.1f", got.Metrics.AvgResponseTime, want)
	}
	if got.Metrics.TotalShifts != 4 {
		t.Errorf("TotalShifts = %d, want 4", got.Metrics.TotalShifts)
	}
	// Absent and still-clocked-in shifts do not count as completed.
	if got.Metrics.CompletedShifts != 2 {
		t.Errorf("CompletedShifts = %d, want 2", got.Metrics.CompletedShifts)
	}
	if want := 50.0; got.Metrics.AttendanceRate != want {
		t.Errorf("AttendanceRate = %.1f, want %.1f", got.Metrics.AttendanceRate, want)
	}
	if got.OverallScore <= 0 || got.OverallScore > 100 {
		t.Errorf("OverallScore = %.1f, want within (0,100]", got.OverallScore)
	}
	if got.Rating < 0 || got.Rating > 5 {
		t.Errorf("Rating = %.1f, want within [0,5]", got.Rating)
	}
}

func TestAggregateEmptyHistory(t *testing.T) {
	a := New(DefaultConfig())

	got, err := a.Aggregate(tanod("t1"), nil, nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got.Metrics.ResolutionRate != 0 {
		t.Errorf("ResolutionRate = %.1f, want 0", got.Metrics.ResolutionRate)
	}
	if got.Metrics.AttendanceRate != 0 {
		t.Errorf("AttendanceRate = %.1f, want 0", got.Metrics.AttendanceRate)
	}
	if got.Metrics.AvgResponseTime != 0 {
		t.Errorf("AvgResponseTime = %.1f, want 0", got.Metrics.AvgResponseTime)
	}
	if got.OverallScore != 0 {
		t.Errorf("OverallScore = %.1f, want 0", got.OverallScore)
	}
}

func TestAggregateQualitativeThresholds(t *testing.T) {
	a := New(DefaultConfig())
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	// 100% resolution, fast responses, full attendance: all strengths.
	var responses []models.IncidentResponse
	for i := 0; i < 10; i++ {
		responses = append(responses, response("t1", base.Add(time.Duration(i)*time.Hour), 3*time.Minute, 30*time.Minute))
	}
	var attendance []models.AttendanceRecord
	for i := 0; i < 10; i++ {
		attendance = append(attendance, shift("t1", base.Add(time.Duration(i)*24*time.Hour), models.AttendancePresent, true))
	}

	got, err := a.Aggregate(tanod("t1"), responses, attendance)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(got.Strengths) != 3 {
		t.Errorf("Strengths = %v, want 3 entries", got.Strengths)
	}
	if len(got.Improvements) != 0 {
		t.Errorf("Improvements = %v, want none", got.Improvements)
	}

	// Weak everything: no resolutions, slow responses, missed shifts.
	responses = nil
	for i := 0; i < 10; i++ {
		responses = append(responses, response("t1", base.Add(time.Duration(i)*time.Hour), 45*time.Minute, 0))
	}
	attendance = nil
	for i := 0; i < 10; i++ {
		attendance = append(attendance, shift("t1", base.Add(time.Duration(i)*24*time.Hour), models.AttendanceAbsent, false))
	}

	got, err = a.Aggregate(tanod("t1"), responses, attendance)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(got.Improvements) != 3 {
		t.Errorf("Improvements = %v, want 3 entries", got.Improvements)
	}
	if len(got.Insights) != len(got.Improvements) {
		t.Errorf("Insights = %d entries, want one per improvement (%d)", len(got.Insights), len(got.Improvements))
	}
}

func TestAggregateBoundaryValues(t *testing.T) {
	a := New(DefaultConfig())
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	// Exactly 85% resolution is a strength (boundary inclusive).
	var responses []models.IncidentResponse
	for i := 0; i < 20; i++ {
		resolve := time.Duration(0)
		if i < 17 {
			resolve = time.Hour
		}
		responses = append(responses, response("t1", base.Add(time.Duration(i)*time.Hour), 4*time.Minute, resolve))
	}
	got, err := a.Aggregate(tanod("t1"), responses, nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got.Metrics.ResolutionRate != 85.0 {
		t.Fatalf("ResolutionRate = %.1f, want exactly 85.0", got.Metrics.ResolutionRate)
	}
	found := false
	for _, s := range got.Strengths {
		if contains(s, "resolution") {
			found = true
		}
	}
	if !found {
		t.Errorf("Strengths = %v, want a resolution-rate strength at the 85%% boundary", got.Strengths)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	a := New(DefaultConfig())
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	responses := []models.IncidentResponse{
		response("t1", base, 4*time.Minute, time.Hour),
		response("t1", base.Add(time.Hour), 12*time.Minute, 0),
	}
	attendance := []models.AttendanceRecord{
		shift("t1", base, models.AttendancePresent, true),
	}

	first, err := a.Aggregate(tanod("t1"), responses, attendance)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := a.Aggregate(tanod("t1"), responses, attendance)
		if err != nil {
			t.Fatalf("Aggregate() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Aggregate() not deterministic: got %+v, want %+v", again, first)
		}
	}
}

func TestAggregateValidation(t *testing.T) {
	a := New(DefaultConfig())

	_, err := a.Aggregate(models.TanodMember{}, nil, nil)
	if !models.IsValidation(err) {
		t.Errorf("empty tanod id: error = %v, want ValidationError", err)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
