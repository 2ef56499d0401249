package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	// Create schema
	schema := `
	CREATE TABLE IF NOT EXISTS farms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		boundary_radius_m REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS animals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		tag_number TEXT NOT NULL,
		species TEXT NOT NULL,
		breed TEXT,
		device_id TEXT,
		latitude REAL,
		longitude REAL,
		last_seen_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (farm_id) REFERENCES farms(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS caretakers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		language TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (farm_id) REFERENCES farms(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS waypoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		animal_id INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		recorded_at TEXT NOT NULL,
		FOREIGN KEY (animal_id) REFERENCES animals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vitals_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		animal_id INTEGER NOT NULL,
		temperature_c REAL NOT NULL,
		heart_rate_bpm REAL NOT NULL,
		recorded_at TEXT NOT NULL,
		FOREIGN KEY (animal_id) REFERENCES animals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vaccination_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		animal_id INTEGER NOT NULL,
		vaccine_name TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		administered_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (animal_id) REFERENCES animals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		animal_id INTEGER NOT NULL,
		farm_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		is_open INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		resolved_at TEXT,
		resolved_by TEXT,
		resolution_notes TEXT,
		FOREIGN KEY (animal_id) REFERENCES animals(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS alert_preferences (
		caretaker_id INTEGER PRIMARY KEY,
		whatsapp_enabled INTEGER NOT NULL DEFAULT 1,
		sms_enabled INTEGER NOT NULL DEFAULT 1,
		email_enabled INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (caretaker_id) REFERENCES caretakers(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS notification_logs (
		id TEXT PRIMARY KEY,
		alert_id INTEGER NOT NULL,
		caretaker_id INTEGER NOT NULL,
		channel TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT,
		sent_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (alert_id) REFERENCES alerts(id) ON DELETE CASCADE
	);
	`

	_, err = db.Exec(schema)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
