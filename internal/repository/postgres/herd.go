package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
)

type HerdRepository struct {
	db *sql.DB
}

func NewHerdRepository(db *sql.DB) herd.Repository {
	return &HerdRepository{db: db}
}

const animalColumns = `id, farm_id, name, tag_number, species, breed, device_id,
	latitude, longitude, last_seen_at, created_at`

func (r *HerdRepository) GetAnimal(ctx context.Context, id int64) (*herd.Animal, error) {
	query := fmt.Sprintf("SELECT %s FROM animals WHERE id = ?", animalColumns)

	a, err := scanAnimal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Animal")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get animal", err)
	}
	return a, nil
}

func (r *HerdRepository) GetAnimalByDevice(ctx context.Context, deviceID string) (*herd.Animal, error) {
	query := fmt.Sprintf("SELECT %s FROM animals WHERE device_id = ?", animalColumns)

	a, err := scanAnimal(r.db.QueryRowContext(ctx, query, deviceID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Animal")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get animal by device", err)
	}
	return a, nil
}

func (r *HerdRepository) ListAnimalsByFarm(ctx context.Context, farmID int64) ([]*herd.Animal, error) {
	query := fmt.Sprintf("SELECT %s FROM animals WHERE farm_id = ? ORDER BY id", animalColumns)

	rows, err := r.db.QueryContext(ctx, query, farmID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list animals", err)
	}
	defer rows.Close()

	animals := make([]*herd.Animal, 0, 50)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan animal", err)
		}
		animals = append(animals, a)
	}

	return animals, rows.Err()
}

func (r *HerdRepository) UpdateAnimalPosition(ctx context.Context, animalID int64, lat, lng float64, seenAt time.Time) error {
	query := `UPDATE animals SET latitude = ?, longitude = ?, last_seen_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		lat, lng, seenAt.UTC().Format(time.RFC3339), animalID)
	if err != nil {
		return errors.DatabaseError("Failed to update animal position", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Animal")
	}

	return nil
}

func (r *HerdRepository) GetFarm(ctx context.Context, id int64) (*herd.Farm, error) {
	query := `SELECT id, name, latitude, longitude, boundary_radius_m, created_at FROM farms WHERE id = ?`

	f, err := scanFarm(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Farm")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get farm", err)
	}
	return f, nil
}

func (r *HerdRepository) ListFarms(ctx context.Context, ids []int64) ([]*herd.Farm, error) {
	query := `SELECT id, name, latitude, longitude, boundary_radius_m, created_at FROM farms`
	args := []interface{}{}

	if len(ids) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		query += fmt.Sprintf(" WHERE id IN (%s)", placeholders)
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list farms", err)
	}
	defer rows.Close()

	farms := make([]*herd.Farm, 0, 10)
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan farm", err)
		}
		farms = append(farms, f)
	}

	return farms, rows.Err()
}

func (r *HerdRepository) ListCaretakers(ctx context.Context, farmID int64) ([]*herd.Caretaker, error) {
	query := `SELECT id, farm_id, name, phone, email, language, created_at FROM caretakers WHERE farm_id = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, farmID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list caretakers", err)
	}
	defer rows.Close()

	caretakers := make([]*herd.Caretaker, 0, 5)
	for rows.Next() {
		var c herd.Caretaker
		var phone, email, language sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.FarmID, &c.Name, &phone, &email, &language, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan caretaker", err)
		}
		c.Phone = phone.String
		c.Email = email.String
		c.Language = language.String
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		caretakers = append(caretakers, &c)
	}

	return caretakers, rows.Err()
}

func scanAnimal(row rowScanner) (*herd.Animal, error) {
	var a herd.Animal
	var breed, deviceID, lastSeen sql.NullString
	var lat, lng sql.NullFloat64
	var createdAt string

	err := row.Scan(&a.ID, &a.FarmID, &a.Name, &a.TagNumber, &a.Species,
		&breed, &deviceID, &lat, &lng, &lastSeen, &createdAt)
	if err != nil {
		return nil, err
	}

	a.Breed = breed.String
	a.DeviceID = deviceID.String
	if lat.Valid {
		a.Latitude = &lat.Float64
	}
	if lng.Valid {
		a.Longitude = &lng.Float64
	}
	if lastSeen.Valid {
		t, _ := time.Parse(time.RFC3339, lastSeen.String)
		a.LastSeenAt = &t
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &a, nil
}

func scanFarm(row rowScanner) (*herd.Farm, error) {
	var f herd.Farm
	var lat, lng sql.NullFloat64
	var createdAt string

	err := row.Scan(&f.ID, &f.Name, &lat, &lng, &f.BoundaryRadiusM, &createdAt)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		f.Latitude = &lat.Float64
	}
	if lng.Valid {
		f.Longitude = &lng.Float64
	}
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &f, nil
}
