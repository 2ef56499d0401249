package detector

import (
	"math"
	"testing"
)

func TestHaversineDistanceM(t *testing.T) {
	tests := []struct {
		name      string
		lat1, ln1 float64
		lat2, ln2 float64
		want      float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 18.5204, ln1: 73.8567,
			lat2: 18.5204, ln2: 73.8567,
			want: 0, tolerance: 0.001,
		},
		{
			name: "one hundredth degree of latitude",
			lat1: 18.50, ln1: 73.85,
			lat2: 18.51, ln2: 73.85,
			want: 1111.95, tolerance: 0.5,
		},
		{
			name: "pune to mumbai",
			lat1: 18.5204, ln1: 73.8567,
			lat2: 19.0760, ln2: 72.8777,
			want: 120000, tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistanceM(tt.lat1, tt.ln1, tt.lat2, tt.ln2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistanceM() = %f, want %f (±%f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestGeofenceDetectorEvaluate(t *testing.T) {
	d := NewGeofenceDetector(300)

	farmLat, farmLng := 18.5204, 73.8567

	tests := []struct {
		name        string
		offsetLat   float64
		radiusM     float64
		wantOutside bool
		wantRadius  float64
	}{
		{
			name:      "at boundary center",
			offsetLat: 0, radiusM: 300,
			wantOutside: false, wantRadius: 300,
		},
		{
			name:      "inside boundary",
			offsetLat: 0.001, radiusM: 300, // ~111m
			wantOutside: false, wantRadius: 300,
		},
		{
			name:      "outside boundary",
			offsetLat: 0.004, radiusM: 300, // ~445m
			wantOutside: true, wantRadius: 300,
		},
		{
			name:      "unset radius falls back to default",
			offsetLat: 0.004, radiusM: 0,
			wantOutside: true, wantRadius: 300,
		},
		{
			name:      "wide custom radius keeps animal inside",
			offsetLat: 0.004, radiusM: 500,
			wantOutside: false, wantRadius: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Evaluate(farmLat+tt.offsetLat, farmLng, farmLat, farmLng, tt.radiusM)
			if got.Outside != tt.wantOutside {
				t.Errorf("Evaluate() Outside = %v, want %v (distance %f)", got.Outside, tt.wantOutside, got.DistanceM)
			}
			if got.RadiusM != tt.wantRadius {
				t.Errorf("Evaluate() RadiusM = %f, want %f", got.RadiusM, tt.wantRadius)
			}
			if got.DistanceM != math.Round(got.DistanceM) {
				t.Errorf("Evaluate() DistanceM = %f, want whole meters", got.DistanceM)
			}
		})
	}
}

func TestGeofenceMessage(t *testing.T) {
	got := GeofenceMessage("Ganga", 450, 300)
	want := "Ganga has strayed 450m from the farm boundary (boundary: 300m)"
	if got != want {
		t.Errorf("GeofenceMessage() = %q, want %q", got, want)
	}
}
