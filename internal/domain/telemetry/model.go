package telemetry

import "time"

// Waypoint represents a GPS fix reported for an animal
type Waypoint struct {
	ID         int64     `json:"id"`
	AnimalID   int64     `json:"animal_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// VitalsReading represents one sensor sample of an animal's vital signs
type VitalsReading struct {
	ID           int64     `json:"id"`
	AnimalID     int64     `json:"animal_id"`
	TemperatureC float64   `json:"temperature_c"`
	HeartRateBPM float64   `json:"heart_rate_bpm"`
	RecordedAt   time.Time `json:"recorded_at"`
}
