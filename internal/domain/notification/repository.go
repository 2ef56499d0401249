package notification

import "context"

// Repository defines the notification repository interface
type Repository interface {
	// Preferences
	GetPreference(ctx context.Context, caretakerID int64) (*Preference, error)
	UpsertPreference(ctx context.Context, preference *Preference) error

	// Logs
	CreateLog(ctx context.Context, log *Log) error
	UpdateLog(ctx context.Context, log *Log) error
	ListLogsByAlert(ctx context.Context, alertID int64) ([]*Log, error)
}
