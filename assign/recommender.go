package assign

import (
	"fmt"
	"sort"
	"strings"

	"incident-intel-service/models"
)

// Config holds the suitability weights. The four weights should sum to 100
// so that a perfect candidate scores a confidence of 100.
type Config struct {
	AreaWeight   int
	ShiftWeight  int
	LoadWeight   int
	RatingWeight int
	// LoadSaturation is the open-incident count at which a candidate's
	// load score bottoms out.
	LoadSaturation int
	// Shift windows, hours in local time. Day covers
	// [DayStartHour, DayEndHour); night covers the rest of the clock.
	DayStartHour int
	DayEndHour   int
}

// DefaultConfig returns the built-in recommender weights.
func DefaultConfig() Config {
	return Config{
		AreaWeight:     40,
		ShiftWeight:    25,
		LoadWeight:     20,
		RatingWeight:   15,
		LoadSaturation: 5,
		DayStartHour:   6,
		DayEndHour:     18,
	}
}

// Context carries the per-call assignment context the engine cannot know
// on its own: how many open incidents each candidate currently has.
type Context struct {
	OpenIncidents map[string]int
}

// Recommender ranks patrol members for incident assignment. It holds only
// immutable configuration and is safe for concurrent use.
type Recommender struct {
	cfg Config
}

// New creates a recommender from the given configuration.
func New(cfg Config) *Recommender {
	return &Recommender{cfg: cfg}
}

// Recommend filters candidates to active members, scores each one on area
// match, shift alignment, inverse load and rating, and returns them in
// descending confidence order. Ties break on rating descending, then on
// total incidents responded ascending. An empty candidate pool yields an
// empty recommendation set with a nil top choice, never an error.
func (r *Recommender) Recommend(incident models.IncidentReport, candidates []models.TanodMember, ctx Context) (models.AssignmentResult, error) {
	if incident.CreatedAt.IsZero() {
		return models.AssignmentResult{}, models.Validationf("created_at", "must be set")
	}
	if strings.TrimSpace(incident.Location) == "" {
		return models.AssignmentResult{}, models.Validationf("location", "must not be empty")
	}

	recs := make([]models.AssignmentRecommendation, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Status != models.TanodActive {
			continue
		}
		confidence, reason := r.scoreCandidate(incident, cand, ctx)
		recs = append(recs, models.AssignmentRecommendation{
			Tanod:       cand,
			Confidence:  confidence,
			MatchReason: reason,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		if recs[i].Tanod.Rating != recs[j].Tanod.Rating {
			return recs[i].Tanod.Rating > recs[j].Tanod.Rating
		}
		return recs[i].Tanod.TotalIncidentsResponded < recs[j].Tanod.TotalIncidentsResponded
	})

	result := models.AssignmentResult{Recommendations: recs}
	if len(recs) > 0 {
		top := recs[0]
		result.TopChoice = &top
	}
	return result, nil
}

// scoreCandidate computes the weighted suitability of one candidate and
// the reason string for its dominant factor.
func (r *Recommender) scoreCandidate(incident models.IncidentReport, cand models.TanodMember, ctx Context) (int, string) {
	areaScore := 0.0
	matchedArea := ""
	loc := strings.ToLower(incident.Location)
	for _, area := range cand.AssignedAreas {
		a := strings.ToLower(strings.TrimSpace(area))
		if a == "" {
			continue
		}
		if strings.Contains(loc, a) || strings.Contains(a, loc) {
			areaScore = 1.0
			matchedArea = area
			break
		}
	}

	shiftScore := 0.0
	if r.shiftCovers(cand.CurrentShift, incident.CreatedAt.Hour()) {
		shiftScore = 1.0
	}

	open := 0
	if ctx.OpenIncidents != nil {
		open = ctx.OpenIncidents[cand.ID]
	}
	if open > r.cfg.LoadSaturation {
		open = r.cfg.LoadSaturation
	}
	loadScore := 1.0 - float64(open)/float64(r.cfg.LoadSaturation)

	ratingScore := cand.Rating / 5.0
	if ratingScore > 1.0 {
		ratingScore = 1.0
	}
	if ratingScore < 0 {
		ratingScore = 0
	}

	area := areaScore * float64(r.cfg.AreaWeight)
	shift := shiftScore * float64(r.cfg.ShiftWeight)
	load := loadScore * float64(r.cfg.LoadWeight)
	rating := ratingScore * float64(r.cfg.RatingWeight)

	confidence := int(area + shift + load + rating + 0.5)
	if confidence > 100 {
		confidence = 100
	}

	return confidence, r.matchReason(cand, matchedArea, area, shift, load, rating)
}

// matchReason names the single factor that contributed the largest share
// of the candidate's score. When no factor contributed anything the reason
// stays neutral instead of claiming an area match the candidate lacks.
func (r *Recommender) matchReason(cand models.TanodMember, matchedArea string, area, shift, load, rating float64) string {
	best := 0.0
	reason := ""
	if matchedArea != "" {
		best = area
		reason = fmt.Sprintf("Patrols this area (%s)", matchedArea)
	}
	if shift > best {
		best = shift
		reason = fmt.Sprintf("Currently on %s shift", cand.CurrentShift)
	}
	if load > best {
		best = load
		reason = "Light current workload"
	}
	if rating > best {
		reason = fmt.Sprintf("High rating (%.1f)", cand.Rating)
	}
	if reason == "" {
		reason = "Available for dispatch"
	}
	return reason
}

func (r *Recommender) shiftCovers(shift models.Shift, hour int) bool {
	switch shift {
	case models.ShiftDay:
		return hour >= r.cfg.DayStartHour && hour < r.cfg.DayEndHour
	case models.ShiftNight:
		return hour < r.cfg.DayStartHour || hour >= r.cfg.DayEndHour
	default:
		return false
	}
}
