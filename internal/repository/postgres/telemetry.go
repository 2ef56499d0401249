package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
)

type TelemetryRepository struct {
	db *sql.DB
}

func NewTelemetryRepository(db *sql.DB) telemetry.Repository {
	return &TelemetryRepository{db: db}
}

func (r *TelemetryRepository) CreateWaypoint(ctx context.Context, wp *telemetry.Waypoint) (int64, error) {
	if wp.RecordedAt.IsZero() {
		wp.RecordedAt = time.Now().UTC()
	}

	query := `INSERT INTO waypoints (animal_id, latitude, longitude, recorded_at) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		wp.AnimalID, wp.Latitude, wp.Longitude, wp.RecordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create waypoint", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get waypoint ID", err)
	}

	wp.ID = id
	return id, nil
}

func (r *TelemetryRepository) LatestWaypoint(ctx context.Context, animalID int64) (*telemetry.Waypoint, error) {
	query := `
		SELECT id, animal_id, latitude, longitude, recorded_at
		FROM waypoints WHERE animal_id = ? ORDER BY recorded_at DESC, id DESC LIMIT 1
	`

	var wp telemetry.Waypoint
	var recordedAt string
	err := r.db.QueryRowContext(ctx, query, animalID).Scan(
		&wp.ID, &wp.AnimalID, &wp.Latitude, &wp.Longitude, &recordedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Waypoint")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get latest waypoint", err)
	}

	wp.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	return &wp, nil
}

func (r *TelemetryRepository) CreateVitals(ctx context.Context, readings []*telemetry.VitalsReading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to start transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vitals_readings (animal_id, temperature_c, heart_rate_bpm, recorded_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.DatabaseError("Failed to prepare vitals insert", err)
	}
	defer stmt.Close()

	for _, v := range readings {
		if v.RecordedAt.IsZero() {
			v.RecordedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			v.AnimalID, v.TemperatureC, v.HeartRateBPM, v.RecordedAt.UTC().Format(time.RFC3339)); err != nil {
			return errors.DatabaseError("Failed to insert vitals reading", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit vitals batch", err)
	}
	return nil
}

func (r *TelemetryRepository) RecentVitals(ctx context.Context, animalID int64, since time.Time, limit int) ([]*telemetry.VitalsReading, error) {
	query := `
		SELECT id, animal_id, temperature_c, heart_rate_bpm, recorded_at
		FROM vitals_readings
		WHERE animal_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query,
		animalID, since.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list recent vitals", err)
	}
	defer rows.Close()

	readings := make([]*telemetry.VitalsReading, 0, limit)
	for rows.Next() {
		var v telemetry.VitalsReading
		var recordedAt string
		if err := rows.Scan(&v.ID, &v.AnimalID, &v.TemperatureC, &v.HeartRateBPM, &recordedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan vitals reading", err)
		}
		v.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		readings = append(readings, &v)
	}

	return readings, rows.Err()
}

func (r *TelemetryRepository) AnimalIDsWithVitalsSince(ctx context.Context, since time.Time) ([]int64, error) {
	query := `SELECT DISTINCT animal_id FROM vitals_readings WHERE recorded_at >= ? ORDER BY animal_id`

	rows, err := r.db.QueryContext(ctx, query, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.DatabaseError("Failed to list animals with vitals", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan animal ID", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
