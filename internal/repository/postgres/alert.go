package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, animal_id, farm_id, category, severity, message, is_open,
	created_at, resolved_at, resolved_by, resolution_notes`

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.IsOpen = true

	query := `
		INSERT INTO alerts (animal_id, farm_id, category, severity, message, is_open, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		a.AnimalID, a.FarmID, a.Category, a.Severity, a.Message, a.IsOpen,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create alert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get alert ID", err)
	}

	a.ID = id
	return id, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE id = ?", alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) FindOpen(ctx context.Context, animalID int64, category string, since *time.Time) ([]*alert.Alert, error) {
	where := []string{"animal_id = ?", "category = ?", "is_open = ?"}
	args := []interface{}{animalID, category, true}

	if since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, since.UTC().Format(time.RFC3339))
	}

	query := fmt.Sprintf("SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC",
		alertColumns, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to find open alerts", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

func (r *AlertRepository) Refresh(ctx context.Context, id int64, message string, createdAt time.Time) error {
	query := `UPDATE alerts SET message = ?, created_at = ? WHERE id = ? AND is_open = ?`

	result, err := r.db.ExecContext(ctx, query,
		message, createdAt.UTC().Format(time.RFC3339), id, true)
	if err != nil {
		return errors.DatabaseError("Failed to refresh alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}

	return nil
}

func (r *AlertRepository) Resolve(ctx context.Context, id int64, resolvedBy, notes string, resolvedAt time.Time) error {
	query := `
		UPDATE alerts SET is_open = ?, resolved_at = ?, resolved_by = ?, resolution_notes = ?
		WHERE id = ? AND is_open = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		false, resolvedAt.UTC().Format(time.RFC3339), resolvedBy, notes, id, true)
	if err != nil {
		return errors.DatabaseError("Failed to resolve alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}

	return nil
}

func (r *AlertRepository) BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string, resolvedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		UPDATE alerts SET is_open = ?, resolved_at = ?, resolved_by = ?, resolution_notes = ?
		WHERE id IN (%s) AND is_open = ?
	`, placeholders)

	args := []interface{}{false, resolvedAt.UTC().Format(time.RFC3339), resolvedBy, notes}
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, true)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.DatabaseError("Failed to bulk resolve alerts", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

func (r *AlertRepository) ListWithPagination(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if filter.AnimalID != 0 {
		where = append(where, "animal_id = ?")
		args = append(args, filter.AnimalID)
	}
	if filter.FarmID != 0 {
		where = append(where, "farm_id = ?")
		args = append(args, filter.FarmID)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.IsOpen != nil {
		where = append(where, "is_open = ?")
		args = append(args, *filter.IsOpen)
	}
	if filter.Search != "" {
		where = append(where, "message LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM alerts WHERE %s", whereClause)
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count alerts", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`, alertColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	alerts, err := collectAlerts(rows)
	if err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}

func (r *AlertRepository) CountBySeverity(ctx context.Context) (map[string]int, error) {
	query := `SELECT severity, COUNT(*) FROM alerts WHERE is_open = ? GROUP BY severity`

	rows, err := r.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count alerts by severity", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan count", err)
		}
		counts[severity] = count
	}

	return counts, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var createdAt string
	var resolvedAt, resolvedBy, notes sql.NullString

	err := row.Scan(
		&a.ID, &a.AnimalID, &a.FarmID, &a.Category, &a.Severity, &a.Message,
		&a.IsOpen, &createdAt, &resolvedAt, &resolvedBy, &notes,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if resolvedAt.Valid {
		t, _ := time.Parse(time.RFC3339, resolvedAt.String)
		a.ResolvedAt = &t
	}
	a.ResolvedBy = resolvedBy.String
	a.ResolutionNotes = notes.String

	return &a, nil
}

func collectAlerts(rows *sql.Rows) ([]*alert.Alert, error) {
	alerts := make([]*alert.Alert, 0, 20)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
