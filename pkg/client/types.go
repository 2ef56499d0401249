package client

import "time"

// Alert represents a herd monitoring alert
type Alert struct {
	ID              int64      `json:"id"`
	AnimalID        int64      `json:"animal_id"`
	FarmID          int64      `json:"farm_id"`
	Category        string     `json:"category"` // geofence, health, vaccination
	Severity        string     `json:"severity"` // high, medium, low
	Message         string     `json:"message"`
	IsOpen          bool       `json:"is_open"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
}

// AlertSummary holds open alert counts by severity
type AlertSummary struct {
	Open   int `json:"open"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// NotificationLog represents one notification delivery attempt
type NotificationLog struct {
	ID           string     `json:"id"`
	AlertID      int64      `json:"alert_id"`
	CaretakerID  int64      `json:"caretaker_id"`
	Channel      string     `json:"channel"` // whatsapp, sms, email
	Status       string     `json:"status"`  // pending, sent, failed
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CheckSummary reports what one detector run did
type CheckSummary struct {
	Evaluated  int `json:"evaluated"`
	Created    int `json:"created"`
	Refreshed  int `json:"refreshed"`
	Suppressed int `json:"suppressed"`
	Resolved   int `json:"resolved"`
	Skipped    int `json:"skipped"`
}

// EscapeReport is the result of reporting an escape sighting
type EscapeReport struct {
	Alert      Alert `json:"alert"`
	Suppressed bool  `json:"suppressed"`
}

// DeviceStatus represents one collar's connectivity
type DeviceStatus struct {
	DeviceID      string     `json:"device_id"`
	Connected     bool       `json:"connected"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
}

// HealthResponse represents the API health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// PaginatedAlerts is a page of alerts with pagination metadata
type PaginatedAlerts struct {
	Data       []Alert `json:"data"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalItems int64   `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}
