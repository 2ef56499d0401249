package detector

import (
	"fmt"
	"math"
	"strings"
)

// IsolationMarker prefixes every vitals alert message. Deduplication of
// health alerts keys on this marker.
const IsolationMarker = "Isolation Required"

// VitalsThresholds holds the limits for the sustained-pattern vitals rule
type VitalsThresholds struct {
	FeverC             float64
	CriticalFeverC     float64
	StressHeartRateBPM float64
	SustainedRatio     float64
	MinReadings        int
}

// Reading is a single vitals sample as seen by the detector
type Reading struct {
	TemperatureC float64
	HeartRateBPM float64
}

// VitalsFinding is the outcome of evaluating a window of readings
type VitalsFinding struct {
	Triggered bool
	Reasons   []string
}

// Message builds the alert message for a triggered finding
func (f VitalsFinding) Message() string {
	return IsolationMarker + ": " + strings.Join(f.Reasons, "; ")
}

// Evaluate applies the sustained-pattern rule to a window of readings.
// A condition must hold on at least ceil(SustainedRatio*n) of the n readings
// to trigger; fewer than MinReadings readings never trigger. A single spiked
// sample therefore cannot raise an alert.
func (t VitalsThresholds) Evaluate(readings []Reading) VitalsFinding {
	n := len(readings)
	if n < t.MinReadings {
		return VitalsFinding{}
	}

	sustained := int(math.Ceil(t.SustainedRatio * float64(n)))

	var fever, critical, stress int
	for _, r := range readings {
		if r.TemperatureC > t.FeverC {
			fever++
		}
		if r.TemperatureC > t.CriticalFeverC {
			critical++
		}
		if r.HeartRateBPM > t.StressHeartRateBPM {
			stress++
		}
	}

	var reasons []string
	switch {
	case critical >= sustained:
		reasons = append(reasons, fmt.Sprintf("Critical Fever (%d/%d readings > %.1f°C)",
			critical, n, t.CriticalFeverC))
	case fever >= sustained:
		reasons = append(reasons, fmt.Sprintf("Sustained Fever (%d/%d readings > %.1f°C)",
			fever, n, t.FeverC))
	}
	if stress >= sustained {
		reasons = append(reasons, fmt.Sprintf("Sustained Stress (%d/%d readings > %.0fbpm)",
			stress, n, t.StressHeartRateBPM))
	}

	return VitalsFinding{
		Triggered: len(reasons) > 0,
		Reasons:   reasons,
	}
}
