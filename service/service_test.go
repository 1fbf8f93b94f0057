package service

import (
	"testing"
	"time"

	"incident-intel-service/models"
)

func TestAnalyzePipeline(t *testing.T) {
	svc := New(nil, nil, nil, 30)

	incident := models.IncidentReport{
		Title:       "Armed robbery at sari-sari store",
		Description: "Man with a gun robbed the store, owner injured",
		Location:    "Purok 6",
		CreatedAt:   time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC),
	}

	analysis, err := svc.Analyze(incident)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.Classification.Category != models.CategoryCrime {
		t.Errorf("category = %s, want %s", analysis.Classification.Category, models.CategoryCrime)
	}
	if analysis.Priority.Priority != models.PriorityEmergency {
		t.Errorf("priority = %s, want %s", analysis.Priority.Priority, models.PriorityEmergency)
	}
	if analysis.Incident.Category != analysis.Classification.Category {
		t.Errorf("incident category not stamped: %s", analysis.Incident.Category)
	}
	if analysis.Incident.Priority != analysis.Priority.Priority {
		t.Errorf("incident priority not stamped: %s", analysis.Incident.Priority)
	}
	if len(analysis.Suggestions) == 0 {
		t.Error("expected response suggestions for an emergency crime")
	}
	if !analysis.Suggestions[0].Urgent {
		t.Error("first suggestion for an emergency crime should be urgent")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	svc := New(nil, nil, nil, 30)

	_, err := svc.Analyze(models.IncidentReport{
		Title:     "",
		Location:  "Purok 1",
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if !models.IsValidation(err) {
		t.Errorf("error should be a validation error, got %v", err)
	}
}

func TestAnalyzeLowSignalReport(t *testing.T) {
	svc := New(nil, nil, nil, 30)

	analysis, err := svc.Analyze(models.IncidentReport{
		Title:       "Question about permits",
		Description: "Where do I apply for a barangay clearance?",
		Location:    "Hall",
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Classification.Category != models.CategoryOther {
		t.Errorf("category = %s, want %s", analysis.Classification.Category, models.CategoryOther)
	}
	if analysis.Classification.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", analysis.Classification.Confidence)
	}
	if analysis.Priority.Priority != models.PriorityMinor {
		t.Errorf("priority = %s, want %s", analysis.Priority.Priority, models.PriorityMinor)
	}
	// Even a low-signal report gets a generic playbook.
	if len(analysis.Suggestions) == 0 {
		t.Error("expected fallback suggestions for low-signal report")
	}
}
