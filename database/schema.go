package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the necessary database tables if they don't exist
func InitSchema(db *sql.DB) error {
	log.Info("Initializing incident-intel database schema...")

	incidentsTableSQL := `
	CREATE TABLE IF NOT EXISTS incidents(
		id CHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category ENUM('crime', 'noise', 'dispute', 'hazard', 'health', 'utility', 'other'),
		priority ENUM('minor', 'urgent', 'emergency'),
		location VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (id),
		INDEX category_index (category),
		INDEX created_at_index (created_at)
	)`

	if _, err := db.Exec(incidentsTableSQL); err != nil {
		return fmt.Errorf("failed to create incidents table: %w", err)
	}
	log.Info("Incidents table created/verified")

	analysisTableSQL := `
	CREATE TABLE IF NOT EXISTS incident_analysis(
		incident_id CHAR(36) NOT NULL,
		category ENUM('crime', 'noise', 'dispute', 'hazard', 'health', 'utility', 'other') NOT NULL,
		confidence INT NOT NULL,
		suggested_categories JSON,
		score INT NOT NULL,
		priority ENUM('minor', 'urgent', 'emergency') NOT NULL,
		factors JSON,
		suggestions JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (incident_id)
	)`

	if _, err := db.Exec(analysisTableSQL); err != nil {
		return fmt.Errorf("failed to create incident_analysis table: %w", err)
	}
	log.Info("Incident_analysis table created/verified")

	tanodsTableSQL := `
	CREATE TABLE IF NOT EXISTS tanods(
		id CHAR(36) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		status ENUM('active', 'inactive', 'on-leave') NOT NULL DEFAULT 'active',
		assigned_areas JSON,
		current_shift ENUM('day', 'night', 'off') NOT NULL DEFAULT 'off',
		rating DOUBLE NOT NULL DEFAULT 0,
		total_incidents_responded INT NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		INDEX status_index (status)
	)`

	if _, err := db.Exec(tanodsTableSQL); err != nil {
		return fmt.Errorf("failed to create tanods table: %w", err)
	}
	log.Info("Tanods table created/verified")

	responsesTableSQL := `
	CREATE TABLE IF NOT EXISTS incident_responses(
		id INT NOT NULL AUTO_INCREMENT,
		tanod_id CHAR(36) NOT NULL,
		incident_id CHAR(36) NOT NULL,
		reported_at TIMESTAMP NOT NULL,
		responded_at TIMESTAMP NULL,
		resolved_at TIMESTAMP NULL,
		severity ENUM('minor', 'urgent', 'emergency') NOT NULL,
		PRIMARY KEY (id),
		INDEX tanod_id_index (tanod_id),
		INDEX incident_id_index (incident_id),
		INDEX reported_at_index (reported_at)
	)`

	if _, err := db.Exec(responsesTableSQL); err != nil {
		return fmt.Errorf("failed to create incident_responses table: %w", err)
	}
	log.Info("Incident_responses table created/verified")

	attendanceTableSQL := `
	CREATE TABLE IF NOT EXISTS attendance(
		id INT NOT NULL AUTO_INCREMENT,
		tanod_id CHAR(36) NOT NULL,
		date DATE NOT NULL,
		clock_in TIMESTAMP NOT NULL,
		clock_out TIMESTAMP NULL,
		total_hours DOUBLE NULL,
		status ENUM('present', 'late', 'on-duty', 'absent') NOT NULL,
		PRIMARY KEY (id),
		INDEX tanod_id_index (tanod_id),
		INDEX date_index (date)
	)`

	if _, err := db.Exec(attendanceTableSQL); err != nil {
		return fmt.Errorf("failed to create attendance table: %w", err)
	}
	log.Info("Attendance table created/verified")

	return nil
}
