package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"incident-intel-service/models"
)

// IntelService wraps all store operations the intelligence workflows need.
type IntelService struct {
	db *sql.DB
}

// NewIntelService creates a new store service around an open connection.
func NewIntelService(db *sql.DB) *IntelService {
	return &IntelService{db: db}
}

// SaveIncident inserts a new incident report.
func (s *IntelService) SaveIncident(ctx context.Context, incident *models.IncidentReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO incidents (id, title, description, category, priority, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		incident.ID, incident.Title, incident.Description,
		nullableString(string(incident.Category)), nullableString(string(incident.Priority)),
		incident.Location, incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert incident %s: %w", incident.ID, err)
	}
	return nil
}

// SaveAnalysis stores the derived analysis for an incident, replacing any
// previous run. The source incident row is never updated; derived data
// lives in its own table.
func (s *IntelService) SaveAnalysis(ctx context.Context, incidentID string, cls models.ClassificationResult, ps models.PriorityScore, suggestions []models.ResponseSuggestion) error {
	suggestedJSON, err := json.Marshal(cls.SuggestedCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal suggested categories: %w", err)
	}
	factorsJSON, err := json.Marshal(ps.Factors)
	if err != nil {
		return fmt.Errorf("failed to marshal factors: %w", err)
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO incident_analysis (incident_id, category, confidence, suggested_categories, score, priority, factors, suggestions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE category=VALUES(category), confidence=VALUES(confidence),
			suggested_categories=VALUES(suggested_categories), score=VALUES(score),
			priority=VALUES(priority), factors=VALUES(factors), suggestions=VALUES(suggestions)`,
		incidentID, string(cls.Category), cls.Confidence, string(suggestedJSON),
		ps.Score, string(ps.Priority), string(factorsJSON), string(suggestionsJSON))
	if err != nil {
		return fmt.Errorf("failed to save analysis for incident %s: %w", incidentID, err)
	}
	return nil
}

// GetIncident fetches one incident by id.
func (s *IntelService) GetIncident(ctx context.Context, id string) (*models.IncidentReport, error) {
	var incident models.IncidentReport
	var category, priority sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, priority, location, created_at
		 FROM incidents WHERE id = ?`, id).
		Scan(&incident.ID, &incident.Title, &incident.Description, &category, &priority,
			&incident.Location, &incident.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incident %s: %w", id, err)
	}
	if category.Valid {
		if incident.Category, err = models.ParseCategory(category.String); err != nil {
			return nil, fmt.Errorf("invalid stored category for incident %s: %w", id, err)
		}
	}
	if priority.Valid {
		if incident.Priority, err = models.ParsePriority(priority.String); err != nil {
			return nil, fmt.Errorf("invalid stored priority for incident %s: %w", id, err)
		}
	}
	return &incident, nil
}

// UpsertTanod creates or updates a roster member.
func (s *IntelService) UpsertTanod(ctx context.Context, member *models.TanodMember) error {
	areasJSON, err := json.Marshal(member.AssignedAreas)
	if err != nil {
		return fmt.Errorf("failed to marshal assigned areas: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tanods (id, display_name, status, assigned_areas, current_shift, rating, total_incidents_responded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE display_name=VALUES(display_name), status=VALUES(status),
			assigned_areas=VALUES(assigned_areas), current_shift=VALUES(current_shift),
			rating=VALUES(rating), total_incidents_responded=VALUES(total_incidents_responded)`,
		member.ID, member.DisplayName, string(member.Status), string(areasJSON),
		string(member.CurrentShift), member.Rating, member.TotalIncidentsResponded)
	if err != nil {
		return fmt.Errorf("failed to upsert tanod %s: %w", member.ID, err)
	}
	return nil
}

// GetRoster fetches the whole tanod roster.
func (s *IntelService) GetRoster(ctx context.Context) ([]models.TanodMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, status, assigned_areas, current_shift, rating, total_incidents_responded
		 FROM tanods`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var roster []models.TanodMember
	for rows.Next() {
		var member models.TanodMember
		var areasJSON sql.NullString
		if err := rows.Scan(&member.ID, &member.DisplayName, &member.Status, &areasJSON,
			&member.CurrentShift, &member.Rating, &member.TotalIncidentsResponded); err != nil {
			return nil, fmt.Errorf("failed to scan tanod row: %w", err)
		}
		if areasJSON.Valid && areasJSON.String != "" {
			if err := json.Unmarshal([]byte(areasJSON.String), &member.AssignedAreas); err != nil {
				return nil, fmt.Errorf("failed to unmarshal assigned areas for tanod %s: %w", member.ID, err)
			}
		}
		roster = append(roster, member)
	}
	return roster, rows.Err()
}

// GetTanod fetches one roster member by id.
func (s *IntelService) GetTanod(ctx context.Context, id string) (*models.TanodMember, error) {
	var member models.TanodMember
	var areasJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, status, assigned_areas, current_shift, rating, total_incidents_responded
		 FROM tanods WHERE id = ?`, id).
		Scan(&member.ID, &member.DisplayName, &member.Status, &areasJSON,
			&member.CurrentShift, &member.Rating, &member.TotalIncidentsResponded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tanod %s: %w", id, err)
	}
	if areasJSON.Valid && areasJSON.String != "" {
		if err := json.Unmarshal([]byte(areasJSON.String), &member.AssignedAreas); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assigned areas for tanod %s: %w", id, err)
		}
	}
	return &member, nil
}

// CountOpenAssignments returns the number of unresolved incident responses
// per tanod, used as the current-load signal for assignment ranking.
func (s *IntelService) CountOpenAssignments(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tanod_id, COUNT(*) FROM incident_responses
		 WHERE resolved_at IS NULL GROUP BY tanod_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count open assignments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tanodID string
		var n int
		if err := rows.Scan(&tanodID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan open assignment count: %w", err)
		}
		counts[tanodID] = n
	}
	return counts, rows.Err()
}

// GetResponsesSince fetches incident responses reported after the cutoff.
// An empty tanodID fetches the whole roster's history.
func (s *IntelService) GetResponsesSince(ctx context.Context, tanodID string, since time.Time) ([]models.IncidentResponse, error) {
	query := `SELECT tanod_id, incident_id, reported_at, responded_at, resolved_at, severity
		 FROM incident_responses WHERE reported_at >= ?`
	args := []interface{}{since}
	if tanodID != "" {
		query += ` AND tanod_id = ?`
		args = append(args, tanodID)
	}
	query += ` ORDER BY reported_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incident responses: %w", err)
	}
	defer rows.Close()

	var responses []models.IncidentResponse
	for rows.Next() {
		var resp models.IncidentResponse
		var responded, resolved sql.NullTime
		var severity string
		if err := rows.Scan(&resp.TanodID, &resp.IncidentID, &resp.ReportedAt,
			&responded, &resolved, &severity); err != nil {
			return nil, fmt.Errorf("failed to scan incident response: %w", err)
		}
		if resp.Severity, err = models.ParsePriority(severity); err != nil {
			return nil, fmt.Errorf("invalid stored severity for incident %s: %w", resp.IncidentID, err)
		}
		if responded.Valid {
			t := responded.Time
			resp.RespondedAt = &t
		}
		if resolved.Valid {
			t := resolved.Time
			resp.ResolvedAt = &t
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// GetAttendanceSince fetches attendance records dated after the cutoff.
// An empty tanodID fetches the whole roster's history.
func (s *IntelService) GetAttendanceSince(ctx context.Context, tanodID string, since time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT tanod_id, date, clock_in, clock_out, total_hours, status
		 FROM attendance WHERE date >= ?`
	args := []interface{}{since}
	if tanodID != "" {
		query += ` AND tanod_id = ?`
		args = append(args, tanodID)
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		var clockOut sql.NullTime
		var totalHours sql.NullFloat64
		if err := rows.Scan(&rec.TanodID, &rec.Date, &rec.ClockIn,
			&clockOut, &totalHours, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		if clockOut.Valid {
			t := clockOut.Time
			rec.ClockOut = &t
		}
		if totalHours.Valid {
			h := totalHours.Float64
			rec.TotalHours = &h
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
