package detector

import (
	"reflect"
	"testing"
)

func defaultThresholds() VitalsThresholds {
	return VitalsThresholds{
		FeverC:             40.0,
		CriticalFeverC:     41.5,
		StressHeartRateBPM: 100,
		SustainedRatio:     0.6,
		MinReadings:        3,
	}
}

func TestVitalsThresholdsEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		readings    []Reading
		wantTrigger bool
		wantReasons []string
	}{
		{
			name: "sustained fever four of five",
			readings: []Reading{
				{TemperatureC: 40.5, HeartRateBPM: 80},
				{TemperatureC: 40.2, HeartRateBPM: 82},
				{TemperatureC: 40.8, HeartRateBPM: 78},
				{TemperatureC: 39.5, HeartRateBPM: 80},
				{TemperatureC: 40.1, HeartRateBPM: 81},
			},
			wantTrigger: true,
			wantReasons: []string{"Sustained Fever (4/5 readings > 40.0°C)"},
		},
		{
			name: "isolated spikes two of five",
			readings: []Reading{
				{TemperatureC: 40.5, HeartRateBPM: 80},
				{TemperatureC: 39.0, HeartRateBPM: 82},
				{TemperatureC: 40.8, HeartRateBPM: 78},
				{TemperatureC: 39.5, HeartRateBPM: 80},
				{TemperatureC: 38.9, HeartRateBPM: 81},
			},
			wantTrigger: false,
		},
		{
			name: "too few readings",
			readings: []Reading{
				{TemperatureC: 42.0, HeartRateBPM: 120},
				{TemperatureC: 42.0, HeartRateBPM: 120},
			},
			wantTrigger: false,
		},
		{
			name: "critical fever takes precedence",
			readings: []Reading{
				{TemperatureC: 41.8, HeartRateBPM: 80},
				{TemperatureC: 41.9, HeartRateBPM: 82},
				{TemperatureC: 41.6, HeartRateBPM: 78},
			},
			wantTrigger: true,
			wantReasons: []string{"Critical Fever (3/3 readings > 41.5°C)"},
		},
		{
			name: "fever and stress together",
			readings: []Reading{
				{TemperatureC: 40.5, HeartRateBPM: 110},
				{TemperatureC: 40.2, HeartRateBPM: 112},
				{TemperatureC: 40.8, HeartRateBPM: 108},
			},
			wantTrigger: true,
			wantReasons: []string{
				"Sustained Fever (3/3 readings > 40.0°C)",
				"Sustained Stress (3/3 readings > 100bpm)",
			},
		},
		{
			name: "stress only three of four",
			readings: []Reading{
				{TemperatureC: 38.5, HeartRateBPM: 110},
				{TemperatureC: 38.6, HeartRateBPM: 112},
				{TemperatureC: 38.4, HeartRateBPM: 108},
				{TemperatureC: 38.5, HeartRateBPM: 90},
			},
			wantTrigger: true,
			wantReasons: []string{"Sustained Stress (3/4 readings > 100bpm)"},
		},
		{
			name: "exactly at threshold does not count",
			readings: []Reading{
				{TemperatureC: 40.0, HeartRateBPM: 100},
				{TemperatureC: 40.0, HeartRateBPM: 100},
				{TemperatureC: 40.0, HeartRateBPM: 100},
			},
			wantTrigger: false,
		},
	}

	th := defaultThresholds()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.Evaluate(tt.readings)
			if got.Triggered != tt.wantTrigger {
				t.Fatalf("Evaluate() Triggered = %v, want %v (reasons %v)", got.Triggered, tt.wantTrigger, got.Reasons)
			}
			if tt.wantTrigger && !reflect.DeepEqual(got.Reasons, tt.wantReasons) {
				t.Errorf("Evaluate() Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestVitalsFindingMessage(t *testing.T) {
	f := VitalsFinding{
		Triggered: true,
		Reasons: []string{
			"Sustained Fever (4/5 readings > 40.0°C)",
			"Sustained Stress (3/5 readings > 100bpm)",
		},
	}
	want := "Isolation Required: Sustained Fever (4/5 readings > 40.0°C); Sustained Stress (3/5 readings > 100bpm)"
	if got := f.Message(); got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}
