package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/vaccination"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
)

type VaccinationRepository struct {
	db *sql.DB
}

func NewVaccinationRepository(db *sql.DB) vaccination.Repository {
	return &VaccinationRepository{db: db}
}

const vaccinationColumns = `id, animal_id, vaccine_name, due_date, status, administered_at, created_at`

func (r *VaccinationRepository) Create(ctx context.Context, e *vaccination.Event) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Status == "" {
		e.Status = vaccination.StatusScheduled
	}

	query := `
		INSERT INTO vaccination_events (animal_id, vaccine_name, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		e.AnimalID, e.VaccineName, e.DueDate.UTC().Format(time.RFC3339), e.Status,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return 0, errors.DatabaseError("Failed to create vaccination event", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get vaccination event ID", err)
	}

	e.ID = id
	return id, nil
}

func (r *VaccinationRepository) GetByID(ctx context.Context, id int64) (*vaccination.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM vaccination_events WHERE id = ?", vaccinationColumns)

	e, err := scanVaccination(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Vaccination event")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get vaccination event", err)
	}
	return e, nil
}

func (r *VaccinationRepository) ListByAnimal(ctx context.Context, animalID int64, status string) ([]*vaccination.Event, error) {
	where := []string{"animal_id = ?"}
	args := []interface{}{animalID}

	if status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}

	query := fmt.Sprintf("SELECT %s FROM vaccination_events WHERE %s ORDER BY due_date",
		vaccinationColumns, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list vaccination events", err)
	}
	defer rows.Close()

	return collectVaccinations(rows)
}

func (r *VaccinationRepository) MarkOverdueMissed(ctx context.Context, now time.Time) (int64, error) {
	// Single set-based transition keeps concurrent check runs from racing on
	// individual rows.
	query := `UPDATE vaccination_events SET status = ? WHERE status = ? AND due_date < ?`

	result, err := r.db.ExecContext(ctx, query,
		vaccination.StatusMissed, vaccination.StatusScheduled, now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, errors.DatabaseError("Failed to mark overdue vaccinations missed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

func (r *VaccinationRepository) ListMissed(ctx context.Context) ([]*vaccination.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM vaccination_events WHERE status = ? ORDER BY due_date",
		vaccinationColumns)

	rows, err := r.db.QueryContext(ctx, query, vaccination.StatusMissed)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list missed vaccinations", err)
	}
	defer rows.Close()

	return collectVaccinations(rows)
}

func (r *VaccinationRepository) MarkAdministered(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE vaccination_events SET status = ?, administered_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		vaccination.StatusAdministered, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return errors.DatabaseError("Failed to mark vaccination administered", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Vaccination event")
	}

	return nil
}

func scanVaccination(row rowScanner) (*vaccination.Event, error) {
	var e vaccination.Event
	var dueDate, createdAt string
	var administeredAt sql.NullString

	err := row.Scan(&e.ID, &e.AnimalID, &e.VaccineName, &dueDate, &e.Status, &administeredAt, &createdAt)
	if err != nil {
		return nil, err
	}

	e.DueDate, _ = time.Parse(time.RFC3339, dueDate)
	if administeredAt.Valid {
		t, _ := time.Parse(time.RFC3339, administeredAt.String)
		e.AdministeredAt = &t
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &e, nil
}

func collectVaccinations(rows *sql.Rows) ([]*vaccination.Event, error) {
	events := make([]*vaccination.Event, 0, 20)
	for rows.Next() {
		e, err := scanVaccination(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan vaccination event", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
