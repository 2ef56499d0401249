package detector

import (
	"fmt"
	"math"
)

// earthRadiusM is the mean Earth radius used for great-circle distances.
const earthRadiusM = 6371000.0

// HaversineDistanceM returns the great-circle distance in meters between two
// coordinates.
func HaversineDistanceM(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// GeofenceDetector evaluates animal positions against a circular farm
// boundary. It holds no state and is safe for concurrent use.
type GeofenceDetector struct {
	// DefaultRadiusM is used when a farm has no boundary radius configured.
	DefaultRadiusM float64
}

// NewGeofenceDetector creates a geofence detector with the given default radius
func NewGeofenceDetector(defaultRadiusM float64) *GeofenceDetector {
	return &GeofenceDetector{DefaultRadiusM: defaultRadiusM}
}

// GeofenceResult is the outcome of one boundary evaluation
type GeofenceResult struct {
	DistanceM float64
	RadiusM   float64
	Outside   bool
}

// Evaluate compares an animal position to the farm boundary. A radiusM of zero
// falls back to the detector default.
func (d *GeofenceDetector) Evaluate(animalLat, animalLng, farmLat, farmLng, radiusM float64) GeofenceResult {
	if radiusM <= 0 {
		radiusM = d.DefaultRadiusM
	}

	// Round to whole meters so messages and comparisons stay stable across
	// repeated fixes at the same spot.
	distance := math.Round(HaversineDistanceM(animalLat, animalLng, farmLat, farmLng))

	return GeofenceResult{
		DistanceM: distance,
		RadiusM:   radiusM,
		Outside:   distance > radiusM,
	}
}

// GeofenceMessage builds the alert message for an animal outside the boundary
func GeofenceMessage(animalName string, distanceM, radiusM float64) string {
	return fmt.Sprintf("%s has strayed %.0fm from the farm boundary (boundary: %.0fm)",
		animalName, distanceM, radiusM)
}
