package dto

import "time"

// ScheduleVaccinationRequest represents a vaccination scheduling request
type ScheduleVaccinationRequest struct {
	AnimalID    int64     `json:"animal_id" validate:"required,gt=0"`
	VaccineName string    `json:"vaccine_name" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// VaccinationEventDTO represents a vaccination event in API responses
type VaccinationEventDTO struct {
	ID             int64      `json:"id"`
	AnimalID       int64      `json:"animal_id"`
	VaccineName    string     `json:"vaccine_name"`
	DueDate        time.Time  `json:"due_date"`
	Status         string     `json:"status"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
}
