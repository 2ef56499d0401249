package alert

import "time"

// Alert represents a condition on an animal that needs caretaker attention
type Alert struct {
	ID              int64      `json:"id"`
	AnimalID        int64      `json:"animal_id"`
	FarmID          int64      `json:"farm_id"`
	Category        string     `json:"category"`
	Severity        string     `json:"severity"`
	Message         string     `json:"message"`
	IsOpen          bool       `json:"is_open"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
}

// Alert categories
const (
	CategoryHealth      = "health"
	CategoryVaccination = "vaccination"
	CategoryGeofence    = "geofence"
	// CategoryInactivity is reserved for a future movement detector.
	CategoryInactivity = "inactivity"
)

// Alert severity levels
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ResolvedBySystem marks alerts closed by automatic resolution
const ResolvedBySystem = "system"

// Filter contains alert filtering options
type Filter struct {
	AnimalID int64
	FarmID   int64
	Category string
	Severity string
	IsOpen   *bool
	Search   string
	From     *time.Time
	To       *time.Time
}

// ValidCategory reports whether s is a known alert category
func ValidCategory(s string) bool {
	switch s {
	case CategoryHealth, CategoryVaccination, CategoryGeofence, CategoryInactivity:
		return true
	default:
		return false
	}
}

// ValidSeverity reports whether s is a known severity level
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}
