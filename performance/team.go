package performance

import (
	"fmt"

	"incident-intel-service/models"
)

// TeamConfig holds the team-level thresholds.
type TeamConfig struct {
	// Distribution bucket thresholds over member overall scores.
	ExcellentThreshold float64
	GoodThreshold      float64
	AverageThreshold   float64

	// Aggregate thresholds that trigger recommendations.
	LowTeamResolutionRate float64
	SlowTeamResponseTime  float64
	LowCapacityPercent    float64
}

// DefaultTeamConfig returns the built-in team thresholds.
func DefaultTeamConfig() TeamConfig {
	return TeamConfig{
		ExcellentThreshold:    90,
		GoodThreshold:         70,
		AverageThreshold:      50,
		LowTeamResolutionRate: 60,
		SlowTeamResponseTime:  30,
		LowCapacityPercent:    50,
	}
}

// AggregateTeam folds per-member performance into team statistics. Only
// active members are scored; every scored member lands in exactly one
// distribution bucket. Responses and attendance are grouped by tanod id,
// so the caller can pass the raw history for the whole roster.
func (a *Aggregator) AggregateTeam(members []models.TanodMember, responses []models.IncidentResponse, attendance []models.AttendanceRecord, cfg TeamConfig) (models.TeamPerformance, error) {
	responsesByTanod := make(map[string][]models.IncidentResponse)
	for _, resp := range responses {
		responsesByTanod[resp.TanodID] = append(responsesByTanod[resp.TanodID], resp)
	}
	attendanceByTanod := make(map[string][]models.AttendanceRecord)
	for _, rec := range attendance {
		attendanceByTanod[rec.TanodID] = append(attendanceByTanod[rec.TanodID], rec)
	}

	var dist models.PerformanceDistribution
	var scoreSum, resolutionSum float64
	var responseTimeSum float64
	responseTimeMembers := 0
	eligible := 0
	activeCount := 0

	for _, member := range members {
		if member.Status == models.TanodActive {
			activeCount++
		}
		if member.Status != models.TanodActive {
			continue
		}
		pm, err := a.Aggregate(member, responsesByTanod[member.ID], attendanceByTanod[member.ID])
		if err != nil {
			return models.TeamPerformance{}, fmt.Errorf("aggregating member %s: %w", member.ID, err)
		}
		eligible++
		scoreSum += pm.OverallScore
		resolutionSum += pm.Metrics.ResolutionRate
		if pm.Metrics.AvgResponseTime > 0 {
			responseTimeSum += pm.Metrics.AvgResponseTime
			responseTimeMembers++
		}

		switch {
		case pm.OverallScore >= cfg.ExcellentThreshold:
			dist.Excellent++
		case pm.OverallScore >= cfg.GoodThreshold:
			dist.Good++
		case pm.OverallScore >= cfg.AverageThreshold:
			dist.Average++
		default:
			dist.Poor++
		}
	}

	team := models.TeamPerformance{
		Distribution:    dist,
		TotalIncidents:  len(responses),
		Insights:        []string{},
		Recommendations: []string{},
	}

	if eligible > 0 {
		team.OverallScore = round1(scoreSum / float64(eligible))
		team.AvgResolutionRate = round1(resolutionSum / float64(eligible))
	}
	if responseTimeMembers > 0 {
		team.AvgResponseTime = round1(responseTimeSum / float64(responseTimeMembers))
	}
	if len(members) > 0 {
		team.CapacityUtilization = round1(float64(activeCount) / float64(len(members)) * 100)
	}

	team.Insights, team.Recommendations = teamNarrative(team, dist, eligible, cfg)
	return team, nil
}

// teamNarrative derives the insight and recommendation strings from the
// already-computed aggregates; it never recomputes them.
func teamNarrative(team models.TeamPerformance, dist models.PerformanceDistribution, eligible int, cfg TeamConfig) (insights, recommendations []string) {
	insights = []string{}
	recommendations = []string{}

	if eligible == 0 {
		insights = append(insights, "No active members to evaluate")
		recommendations = append(recommendations, "Activate or recruit patrol members before the next schedule cycle")
		return insights, recommendations
	}

	insights = append(insights, fmt.Sprintf("Team average score is %.1f across %d active members", team.OverallScore, eligible))
	if dist.Excellent > 0 {
		insights = append(insights, fmt.Sprintf("%d member(s) performing at an excellent level", dist.Excellent))
	}
	if dist.Poor > 0 {
		insights = append(insights, fmt.Sprintf("%d member(s) need close supervision", dist.Poor))
		recommendations = append(recommendations, "Pair low-scoring members with top performers on joint patrols")
	}

	if team.AvgResolutionRate < cfg.LowTeamResolutionRate {
		recommendations = append(recommendations, fmt.Sprintf("Team resolution rate is %.1f%%; review open incidents and close out stale assignments", team.AvgResolutionRate))
	}
	if team.AvgResponseTime > cfg.SlowTeamResponseTime {
		recommendations = append(recommendations, fmt.Sprintf("Average response time is %.1f minutes; review patrol routes and dispatch coverage", team.AvgResponseTime))
	}
	if team.CapacityUtilization < cfg.LowCapacityPercent {
		recommendations = append(recommendations, fmt.Sprintf("Only %.1f%% of the roster is active; review leave schedules and inactive members", team.CapacityUtilization))
	}

	return insights, recommendations
}
