package priority

import (
	"strings"

	"incident-intel-service/models"
)

// Factor names exposed in the score breakdown.
const (
	FactorBase          = "base"
	FactorNightHours    = "night_hours"
	FactorUrgencyWords  = "urgency_keywords"
	FactorHighRiskZone  = "high_risk_zone"
	FactorCapAdjustment = "cap_adjustment"
)

// Config holds the priority scoring tables and thresholds.
type Config struct {
	// BaseScores is the starting score per category.
	BaseScores map[models.Category]int
	// NightBonus is added when the incident was created during night
	// hours (NightStartHour..NightEndHour, wrapping midnight).
	NightBonus     int
	NightStartHour int
	NightEndHour   int
	// UrgencyKeywords maps description keywords to score boosts; the
	// total keyword contribution is capped at UrgencyCap.
	UrgencyKeywords map[string]int
	UrgencyCap      int
	// HighRiskZones maps lower-cased zone names to a location bonus.
	HighRiskZones map[string]int
	// Tier thresholds: score >= EmergencyThreshold -> emergency,
	// score >= UrgentThreshold -> urgent, else minor.
	EmergencyThreshold int
	UrgentThreshold    int
}

// DefaultConfig returns the built-in scoring tables.
func DefaultConfig() Config {
	return Config{
		BaseScores: map[models.Category]int{
			models.CategoryCrime:   45,
			models.CategoryHealth:  42,
			models.CategoryHazard:  40,
			models.CategoryDispute: 30,
			models.CategoryUtility: 25,
			models.CategoryNoise:   20,
			models.CategoryOther:   15,
		},
		NightBonus:     15,
		NightStartHour: 22,
		NightEndHour:   6,
		UrgencyKeywords: map[string]int{
			"weapon":      15,
			"gun":         15,
			"knife":       12,
			"fire":        15,
			"explosion":   15,
			"unconscious": 15,
			"bleeding":    12,
			"injured":     10,
			"trapped":     12,
			"screaming":   8,
			"emergency":   8,
		},
		UrgencyCap: 25,
		HighRiskZones: map[string]int{
			"purok 1":          15,
			"purok 6":          15,
			"riverside":        15,
			"market area":      15,
			"national highway": 15,
		},
		EmergencyThreshold: 70,
		UrgentThreshold:    40,
	}
}

// Scorer computes numeric priority scores from incident features. It holds
// only immutable configuration and is safe for concurrent use.
type Scorer struct {
	cfg Config
}

// New creates a scorer from the given configuration.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score combines the category base score, a night-hours adjustment, a
// capped urgency-keyword bonus and a high-risk-zone bonus into a 0-100
// score with a discrete tier. Every additive contribution is exposed in
// Factors and the factor values always sum to the final score; when the
// raw total exceeds 100 the overflow is recorded as a negative
// cap_adjustment factor so the invariant survives clamping.
//
// The incident category may be omitted when a classification result is
// supplied; the classified category is used instead.
func (s *Scorer) Score(incident models.IncidentReport, classification *models.ClassificationResult) (models.PriorityScore, error) {
	category := incident.Category
	if category == "" && classification != nil {
		category = classification.Category
	}
	if category == "" {
		return models.PriorityScore{}, models.Validationf("category", "missing and no classification supplied")
	}
	base, ok := s.cfg.BaseScores[category]
	if !ok {
		return models.PriorityScore{}, models.Validationf("category", "unknown category %q", category)
	}
	if incident.CreatedAt.IsZero() {
		return models.PriorityScore{}, models.Validationf("created_at", "must be set")
	}

	factors := map[string]int{FactorBase: base}
	total := base

	if s.isNight(incident.CreatedAt.Hour()) {
		factors[FactorNightHours] = s.cfg.NightBonus
		total += s.cfg.NightBonus
	}

	if bonus := s.urgencyBonus(incident.Description); bonus > 0 {
		factors[FactorUrgencyWords] = bonus
		total += bonus
	}

	if bonus := s.zoneBonus(incident.Location); bonus > 0 {
		factors[FactorHighRiskZone] = bonus
		total += bonus
	}

	score := total
	if score > 100 {
		factors[FactorCapAdjustment] = 100 - total
		score = 100
	}
	if score < 0 {
		factors[FactorCapAdjustment] = -total
		score = 0
	}

	return models.PriorityScore{
		Score:    score,
		Priority: s.tier(score),
		Factors:  factors,
	}, nil
}

// Tier maps a numeric score to its priority tier using the configured
// thresholds.
func (s *Scorer) tier(score int) models.Priority {
	switch {
	case score >= s.cfg.EmergencyThreshold:
		return models.PriorityEmergency
	case score >= s.cfg.UrgentThreshold:
		return models.PriorityUrgent
	default:
		return models.PriorityMinor
	}
}

func (s *Scorer) isNight(hour int) bool {
	if s.cfg.NightStartHour > s.cfg.NightEndHour {
		return hour >= s.cfg.NightStartHour || hour < s.cfg.NightEndHour
	}
	return hour >= s.cfg.NightStartHour && hour < s.cfg.NightEndHour
}

func (s *Scorer) urgencyBonus(description string) int {
	text := strings.ToLower(description)
	tokens := tokenize(text)
	bonus := 0
	for keyword, boost := range s.cfg.UrgencyKeywords {
		if matchesKeyword(text, tokens, keyword) {
			bonus += boost
		}
	}
	if bonus > s.cfg.UrgencyCap {
		bonus = s.cfg.UrgencyCap
	}
	return bonus
}

// matchesKeyword reports whether keyword appears in the description.
// Multi-word keywords use substring search; single words must match whole
// tokens so "gun" does not fire on "begun".
func matchesKeyword(text string, tokens []string, keyword string) bool {
	if strings.Contains(keyword, " ") || strings.Contains(keyword, "-") {
		return strings.Contains(text, keyword)
	}
	for _, tok := range tokens {
		if tok == keyword {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= '0' && r <= '9' {
			return false
		}
		return true
	})
}

func (s *Scorer) zoneBonus(location string) int {
	loc := strings.ToLower(location)
	best := 0
	for zone, bonus := range s.cfg.HighRiskZones {
		if strings.Contains(loc, zone) && bonus > best {
			best = bonus
		}
	}
	return best
}
