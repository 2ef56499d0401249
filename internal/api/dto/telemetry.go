package dto

import "time"

// WaypointRequest represents a GPS fix reported for an animal
type WaypointRequest struct {
	AnimalID   int64      `json:"animal_id" validate:"required,gt=0"`
	Latitude   float64    `json:"latitude" validate:"latitude"`
	Longitude  float64    `json:"longitude" validate:"longitude"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// VitalsReadingDTO is one sensor sample in a vitals batch
type VitalsReadingDTO struct {
	TemperatureC float64    `json:"temperature_c" validate:"required,gt=30,lt=46"`
	HeartRateBPM float64    `json:"heart_rate_bpm" validate:"required,gt=20,lt=250"`
	RecordedAt   *time.Time `json:"recorded_at,omitempty"`
}

// IngestVitalsRequest represents a batch of vitals readings for an animal
type IngestVitalsRequest struct {
	AnimalID int64              `json:"animal_id" validate:"required,gt=0"`
	Readings []VitalsReadingDTO `json:"readings" validate:"required,min=1,dive"`
}

// IngestVitalsResponse reports what the inline health check decided
type IngestVitalsResponse struct {
	Stored       int    `json:"stored"`
	AlertOutcome string `json:"alert_outcome,omitempty"`
}

// HeartbeatRequest represents a bare device heartbeat
type HeartbeatRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
}

// DeviceStatusDTO represents one device's connectivity in API responses
type DeviceStatusDTO struct {
	DeviceID      string     `json:"device_id"`
	Connected     bool       `json:"connected"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
}
