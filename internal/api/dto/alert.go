package dto

import "time"

// AlertDTO represents an alert in API responses
type AlertDTO struct {
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

// ResolveAlertRequest represents a manual alert resolution request
type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolved_by" validate:"required"`
	Notes      string `json:"notes,omitempty"`
}

// BulkResolveRequest represents a bulk alert resolution request
type BulkResolveRequest struct {
	IDs        []int64 `json:"ids" validate:"required,min=1"`
	ResolvedBy string  `json:"resolved_by" validate:"required"`
	Notes      string  `json:"notes,omitempty"`
}

// EscapeReportRequest represents an escape sighting reported by the vision
// system
type EscapeReportRequest struct {
	AnimalID int64 `json:"animal_id" validate:"required,gt=0"`
}

// EscapeReportResponse carries the resulting alert and whether the report was
// suppressed by the cooldown
type EscapeReportResponse struct {
	Alert      AlertDTO `json:"alert"`
	Suppressed bool     `json:"suppressed"`
}

// AlertSummaryDTO represents open alert counts by severity
type AlertSummaryDTO struct {
	Open   int `json:"open"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}
