package priority

import (
	"testing"
	"time"

	"incident-intel-service/models"
)

func TestScore(t *testing.T) {
	s := New(DefaultConfig())

	day := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	night := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		incident     models.IncidentReport
		wantScore    int
		wantPriority models.Priority
	}{
		{
			name: "daytime noise is minor",
			incident: models.IncidentReport{
				Category:    models.CategoryNoise,
				Description: "Loud videoke at the corner house",
				Location:    "Purok 4",
				CreatedAt:   day,
			},
			wantScore:    20,
			wantPriority: models.PriorityMinor,
		},
		{
			name: "night bonus added to noise",
			incident: models.IncidentReport{
				Category:    models.CategoryNoise,
				Description: "Loud videoke at the corner house",
				Location:    "Purok 4",
				CreatedAt:   night,
			},
			wantScore:    35, // 20 base + 15 night
			wantPriority: models.PriorityMinor,
		},
		{
			name: "armed night crime in risk zone is emergency",
			incident: models.IncidentReport{
				Category:    models.CategoryCrime,
				Description: "Group of men, one holding a weapon, near the store",
				Location:    "Purok 6, near the basketball court",
				CreatedAt:   night,
			},
			wantScore:    90, // 45 base + 15 night + 15 weapon + 15 zone
			wantPriority: models.PriorityEmergency,
		},
		{
			name: "daytime utility outage is minor",
			incident: models.IncidentReport{
				Category:    models.CategoryUtility,
				Description: "No electricity since morning",
				Location:    "Purok 2",
				CreatedAt:   day,
			},
			wantScore:    25,
			wantPriority: models.PriorityMinor,
		},
		{
			name: "health incident with urgency words is emergency",
			incident: models.IncidentReport{
				Category:    models.CategoryHealth,
				Description: "Old man unconscious and bleeding after a fall",
				Location:    "Purok 3",
				CreatedAt:   day,
			},
			wantScore:    67, // 42 base + 25 capped urgency (15+12 -> 25)
			wantPriority: models.PriorityUrgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Score(tt.incident, nil)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score() = %d, want %d (factors %v)", got.Score, tt.wantScore, got.Factors)
			}
			if got.Priority != tt.wantPriority {
				t.Errorf("Score() priority = %q, want %q", got.Priority, tt.wantPriority)
			}
			assertFactorSum(t, got)
		})
	}
}

func assertFactorSum(t *testing.T, ps models.PriorityScore) {
	t.Helper()
	sum := 0
	for _, v := range ps.Factors {
		sum += v
	}
	if sum != ps.Score {
		t.Errorf("factor sum = %d, want %d (factors %v)", sum, ps.Score, ps.Factors)
	}
}

func TestScoreFactorSumWhenClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseScores[models.CategoryCrime] = 80
	s := New(cfg)

	got, err := s.Score(models.IncidentReport{
		Category:    models.CategoryCrime,
		Description: "Armed robbery, suspect fired a gun and started a fire",
		Location:    "Market Area stalls",
		CreatedAt:   time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC),
	}, nil)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got.Score != 100 {
		t.Errorf("Score() = %d, want clamped 100", got.Score)
	}
	if got.Factors[FactorCapAdjustment] >= 0 {
		t.Errorf("cap_adjustment = %d, want negative", got.Factors[FactorCapAdjustment])
	}
	assertFactorSum(t, got)
}

func TestScoreUsesClassificationWhenCategoryMissing(t *testing.T) {
	s := New(DefaultConfig())

	cls := &models.ClassificationResult{Category: models.CategoryHazard, Confidence: 80}
	got, err := s.Score(models.IncidentReport{
		Description: "Flooding on the main road",
		Location:    "Purok 5",
		CreatedAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}, cls)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got.Factors[FactorBase] != DefaultConfig().BaseScores[models.CategoryHazard] {
		t.Errorf("base factor = %d, want hazard base %d",
			got.Factors[FactorBase], DefaultConfig().BaseScores[models.CategoryHazard])
	}
}

func TestScoreValidation(t *testing.T) {
	s := New(DefaultConfig())

	_, err := s.Score(models.IncidentReport{
		Description: "something happened",
		Location:    "Purok 1",
		CreatedAt:   time.Now(),
	}, nil)
	if !models.IsValidation(err) {
		t.Errorf("missing category: error = %v, want ValidationError", err)
	}

	_, err = s.Score(models.IncidentReport{
		Category:    models.CategoryCrime,
		Description: "something happened",
		Location:    "Purok 1",
	}, nil)
	if !models.IsValidation(err) {
		t.Errorf("zero created_at: error = %v, want ValidationError", err)
	}
}

func TestNightWindowBoundaries(t *testing.T) {
	s := New(DefaultConfig())

	tests := []struct {
		hour      int
		wantNight bool
	}{
		{21, false},
		{22, true},
		{23, true},
		{0, true},
		{5, true},
		{6, false},
		{12, false},
	}

	for _, tt := range tests {
		incident := models.IncidentReport{
			Category:    models.CategoryNoise,
			Description: "noise",
			Location:    "Purok 4",
			CreatedAt:   time.Date(2026, 3, 2, tt.hour, 0, 0, 0, time.UTC),
		}
		got, err := s.Score(incident, nil)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		_, hasNight := got.Factors[FactorNightHours]
		if hasNight != tt.wantNight {
			t.Errorf("hour %d: night factor present = %v, want %v", tt.hour, hasNight, tt.wantNight)
		}
	}
}

func TestUrgencyWholeWordMatching(t *testing.T) {
	s := New(DefaultConfig())

	// "begun" must not trigger the "gun" keyword, "fired" must not
	// trigger "fire".
	got, err := s.Score(models.IncidentReport{
		Category:    models.CategoryDispute,
		Description: "The two families have begun arguing over the fence line after one was fired",
		Location:    "Purok 4",
		CreatedAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}, nil)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if _, ok := got.Factors[FactorUrgencyWords]; ok {
		t.Errorf("urgency factor present on substring matches, factors = %v", got.Factors)
	}
	if got.Score != DefaultConfig().BaseScores[models.CategoryDispute] {
		t.Errorf("Score() = %d, want bare dispute base %d", got.Score, DefaultConfig().BaseScores[models.CategoryDispute])
	}
	if got.Priority != models.PriorityMinor {
		t.Errorf("Priority = %s, want %s", got.Priority, models.PriorityMinor)
	}

	// A real whole-word hit still scores.
	got, err = s.Score(models.IncidentReport{
		Category:    models.CategoryDispute,
		Description: "One of them pulled out a gun during the argument",
		Location:    "Purok 4",
		CreatedAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}, nil)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if got.Factors[FactorUrgencyWords] != 15 {
		t.Errorf("urgency factor = %d, want 15 for a whole-word gun match", got.Factors[FactorUrgencyWords])
	}
}
