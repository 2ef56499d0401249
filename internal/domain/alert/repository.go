package alert

import (
	"context"
	"time"
)

// Repository defines the interface for alert data access
type Repository interface {
	// Create creates a new alert
	Create(ctx context.Context, alert *Alert) (int64, error)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// FindOpen retrieves open alerts for an animal and category.
	// A non-nil since bounds the search to alerts created at or after it.
	FindOpen(ctx context.Context, animalID int64, category string, since *time.Time) ([]*Alert, error)

	// Refresh updates the message and created_at of an existing open alert
	Refresh(ctx context.Context, id int64, message string, createdAt time.Time) error

	// Resolve closes an alert, recording who resolved it and why
	Resolve(ctx context.Context, id int64, resolvedBy, notes string, resolvedAt time.Time) error

	// BulkResolve closes multiple alerts, returning how many were still open
	BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string, resolvedAt time.Time) (int64, error)

	// ListWithPagination retrieves alerts with filters and pagination
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Alert, int64, error)

	// CountBySeverity counts open alerts by severity
	CountBySeverity(ctx context.Context) (map[string]int, error)
}
