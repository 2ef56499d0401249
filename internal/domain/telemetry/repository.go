package telemetry

import (
	"context"
	"time"
)

// Repository defines the interface for telemetry data access
type Repository interface {
	// CreateWaypoint stores a GPS fix
	CreateWaypoint(ctx context.Context, wp *Waypoint) (int64, error)

	// LatestWaypoint retrieves the most recent GPS fix for an animal
	LatestWaypoint(ctx context.Context, animalID int64) (*Waypoint, error)

	// CreateVitals stores vitals readings in one batch
	CreateVitals(ctx context.Context, readings []*VitalsReading) error

	// RecentVitals retrieves up to limit readings for an animal recorded at or
	// after since, newest first
	RecentVitals(ctx context.Context, animalID int64, since time.Time, limit int) ([]*VitalsReading, error)

	// AnimalIDsWithVitalsSince lists animals with at least one reading since the
	// given time
	AnimalIDsWithVitalsSince(ctx context.Context, since time.Time) ([]int64, error)
}
