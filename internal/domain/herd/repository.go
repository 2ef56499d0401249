package herd

import (
	"context"
	"time"
)

// Repository defines the interface for herd directory access
type Repository interface {
	// GetAnimal retrieves an animal by ID
	GetAnimal(ctx context.Context, id int64) (*Animal, error)

	// GetAnimalByDevice retrieves the animal wearing the given device
	GetAnimalByDevice(ctx context.Context, deviceID string) (*Animal, error)

	// ListAnimalsByFarm retrieves all animals on a farm
	ListAnimalsByFarm(ctx context.Context, farmID int64) ([]*Animal, error)

	// UpdateAnimalPosition records the animal's latest known position
	UpdateAnimalPosition(ctx context.Context, animalID int64, lat, lng float64, seenAt time.Time) error

	// GetFarm retrieves a farm by ID
	GetFarm(ctx context.Context, id int64) (*Farm, error)

	// ListFarms retrieves farms by ID, or all farms when ids is empty
	ListFarms(ctx context.Context, ids []int64) ([]*Farm, error)

	// ListCaretakers retrieves the caretakers of a farm
	ListCaretakers(ctx context.Context, farmID int64) ([]*Caretaker, error)
}
