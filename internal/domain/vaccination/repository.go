package vaccination

import (
	"context"
	"time"
)

// Repository defines the interface for vaccination schedule access
type Repository interface {
	// Create schedules a new vaccination event
	Create(ctx context.Context, event *Event) (int64, error)

	// GetByID retrieves a vaccination event by ID
	GetByID(ctx context.Context, id int64) (*Event, error)

	// ListByAnimal retrieves events for an animal, optionally filtered by status
	ListByAnimal(ctx context.Context, animalID int64, status string) ([]*Event, error)

	// MarkOverdueMissed transitions every scheduled event past its due date to
	// missed in a single statement, returning how many rows changed
	MarkOverdueMissed(ctx context.Context, now time.Time) (int64, error)

	// ListMissed retrieves all events currently in the missed state
	ListMissed(ctx context.Context) ([]*Event, error)

	// MarkAdministered records that the vaccination was given
	MarkAdministered(ctx context.Context, id int64, at time.Time) error
}
