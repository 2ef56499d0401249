package herd

import "time"

// Animal represents a tracked animal in a herd
type Animal struct {
	ID         int64      `json:"id"`
	FarmID     int64      `json:"farm_id"`
	Name       string     `json:"name"`
	TagNumber  string     `json:"tag_number"`
	Species    string     `json:"species"`
	Breed      string     `json:"breed,omitempty"`
	DeviceID   string     `json:"device_id,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Farm represents a farm with a circular geofence boundary
type Farm struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	BoundaryRadiusM float64   `json:"boundary_radius_m"`
	CreatedAt       time.Time `json:"created_at"`
}

// Caretaker represents a person responsible for a farm's animals
type Caretaker struct {
	ID        int64     `json:"id"`
	FarmID    int64     `json:"farm_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasLocation reports whether the farm has boundary coordinates configured
func (f *Farm) HasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Radius returns the farm boundary radius, falling back to def when unset
func (f *Farm) Radius(def float64) float64 {
	if f.BoundaryRadiusM > 0 {
		return f.BoundaryRadiusM
	}
	return def
}
