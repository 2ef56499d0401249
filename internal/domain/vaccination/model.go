package vaccination

import "time"

// Event represents a scheduled vaccination for an animal
type Event struct {
	ID             int64      `json:"id"`
	AnimalID       int64      `json:"animal_id"`
	VaccineName    string     `json:"vaccine_name"`
	DueDate        time.Time  `json:"due_date"`
	Status         string     `json:"status"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Vaccination event statuses
const (
	StatusScheduled    = "scheduled"
	StatusMissed       = "missed"
	StatusAdministered = "administered"
)

// DaysPastDue returns how many whole days the event is past its due date at now
func (e *Event) DaysPastDue(now time.Time) int {
	if !now.After(e.DueDate) {
		return 0
	}
	return int(now.Sub(e.DueDate).Hours() / 24)
}
