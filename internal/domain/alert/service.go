package alert

import "context"

// Service defines the interface for alert business logic
type Service interface {
	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// List retrieves alerts with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Alert, int64, error)

	// Resolve closes an alert manually
	Resolve(ctx context.Context, id int64, resolvedBy, notes string) error

	// BulkResolve closes multiple alerts, returning how many were still open
	BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string) (int64, error)

	// Summary counts open alerts by severity
	Summary(ctx context.Context) (map[string]int, error)
}
