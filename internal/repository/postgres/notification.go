package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) GetPreference(ctx context.Context, caretakerID int64) (*notification.Preference, error) {
	query := `
		SELECT caretaker_id, whatsapp_enabled, sms_enabled, email_enabled, updated_at
		FROM alert_preferences WHERE caretaker_id = ?
	`

	var p notification.Preference
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query, caretakerID).Scan(
		&p.CaretakerID, &p.WhatsAppEnabled, &p.SMSEnabled, &p.EmailEnabled, &updatedAt)

	if err == sql.ErrNoRows {
		// No stored row means every channel stays enabled.
		return notification.DefaultPreference(caretakerID), nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert preference", err)
	}

	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *NotificationRepository) UpsertPreference(ctx context.Context, p *notification.Preference) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO alert_preferences (caretaker_id, whatsapp_enabled, sms_enabled, email_enabled, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (caretaker_id) DO UPDATE SET
			whatsapp_enabled = excluded.whatsapp_enabled,
			sms_enabled = excluded.sms_enabled,
			email_enabled = excluded.email_enabled,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.CaretakerID, p.WhatsAppEnabled, p.SMSEnabled, p.EmailEnabled,
		p.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return errors.DatabaseError("Failed to upsert alert preference", err)
	}

	return nil
}

func (r *NotificationRepository) CreateLog(ctx context.Context, l *notification.Log) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.Status == "" {
		l.Status = notification.DeliveryStatusPending
	}

	query := `
		INSERT INTO notification_logs (id, alert_id, caretaker_id, channel, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.AlertID, l.CaretakerID, string(l.Channel), string(l.Status),
		l.ErrorMessage, l.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return errors.DatabaseError("Failed to create notification log", err)
	}

	return nil
}

func (r *NotificationRepository) UpdateLog(ctx context.Context, l *notification.Log) error {
	query := `UPDATE notification_logs SET status = ?, error_message = ?, sent_at = ? WHERE id = ?`

	var sentAt interface{}
	if l.SentAt != nil {
		sentAt = l.SentAt.UTC().Format(time.RFC3339)
	}

	result, err := r.db.ExecContext(ctx, query,
		string(l.Status), l.ErrorMessage, sentAt, l.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update notification log", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Notification log")
	}

	return nil
}

func (r *NotificationRepository) ListLogsByAlert(ctx context.Context, alertID int64) ([]*notification.Log, error) {
	query := `
		SELECT id, alert_id, caretaker_id, channel, status, error_message, sent_at, created_at
		FROM notification_logs WHERE alert_id = ? ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, alertID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list notification logs", err)
	}
	defer rows.Close()

	logs := make([]*notification.Log, 0, 10)
	for rows.Next() {
		var l notification.Log
		var channel, status, createdAt string
		var errMsg, sentAt sql.NullString
		if err := rows.Scan(&l.ID, &l.AlertID, &l.CaretakerID, &channel, &status, &errMsg, &sentAt, &createdAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan notification log", err)
		}
		l.Channel = notification.Channel(channel)
		l.Status = notification.DeliveryStatus(status)
		l.ErrorMessage = errMsg.String
		if sentAt.Valid {
			t, _ := time.Parse(time.RFC3339, sentAt.String)
			l.SentAt = &t
		}
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
