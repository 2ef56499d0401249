package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pashupehchan/herdwatch/internal/detector"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/testutil"
)

type vitalsFixture struct {
	telemetry  *testutil.MockTelemetryRepository
	herdRepo   *testutil.MockHerdRepository
	alertRepo  *testutil.MockAlertRepository
	dispatcher *testutil.MockDispatcher
	service    *VitalsService
}

func newVitalsFixture(t *testing.T) *vitalsFixture {
	t.Helper()
	telemetryRepo := testutil.NewMockTelemetryRepository()
	herdRepo := testutil.NewMockHerdRepository()
	alertRepo := testutil.NewMockAlertRepository()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	alerts := NewAlertService(alertRepo, dispatcher, log)
	dedup := NewDeduplicator(alertRepo)
	thresholds := detector.VitalsThresholds{
		FeverC:             40.0,
		CriticalFeverC:     41.5,
		StressHeartRateBPM: 100,
		SustainedRatio:     0.6,
		MinReadings:        3,
	}
	service := NewVitalsService(telemetryRepo, herdRepo, alerts, dedup, thresholds, 15*time.Minute, 5, 24*time.Hour, log)

	herdRepo.Animals[1] = &herd.Animal{ID: 1, FarmID: 1, Name: "Nandini", Species: "cow"}

	return &vitalsFixture{
		telemetry:  telemetryRepo,
		herdRepo:   herdRepo,
		alertRepo:  alertRepo,
		dispatcher: dispatcher,
		service:    service,
	}
}

func (f *vitalsFixture) addReadings(animalID int64, temps []float64, bpm float64) {
	now := time.Now().UTC()
	readings := make([]*telemetry.VitalsReading, len(temps))
	for i, temp := range temps {
		readings[i] = &telemetry.VitalsReading{
			AnimalID:     animalID,
			TemperatureC: temp,
			HeartRateBPM: bpm,
			RecordedAt:   now.Add(-time.Duration(i) * time.Minute),
		}
	}
	f.telemetry.CreateVitals(context.Background(), readings)
}

func TestVitalsService_CheckAnimal(t *testing.T) {
	tests := []struct {
		name        string
		temps       []float64
		bpm         float64
		wantOutcome Outcome
		wantMsg     string
	}{
		{
			name:        "sustained fever triggers",
			temps:       []float64{40.5, 40.6, 40.4, 40.7, 39.0},
			bpm:         70,
			wantOutcome: OutcomeCreate,
			wantMsg:     "Isolation Required: Sustained Fever (4/5 readings > 40.0°C)",
		},
		{
			name:        "brief spike does not trigger",
			temps:       []float64{40.5, 40.6, 39.0, 38.8, 38.9},
			bpm:         70,
			wantOutcome: "",
		},
		{
			name:        "critical fever takes precedence",
			temps:       []float64{41.8, 41.9, 41.7, 41.6, 41.8},
			bpm:         70,
			wantOutcome: OutcomeCreate,
			wantMsg:     "Isolation Required: Critical Fever (5/5 readings > 41.5°C)",
		},
		{
			name:        "stress alone triggers",
			temps:       []float64{38.5, 38.6, 38.4, 38.5, 38.6},
			bpm:         115,
			wantOutcome: OutcomeCreate,
			wantMsg:     "Isolation Required: Sustained Stress (5/5 readings > 100bpm)",
		},
		{
			name:        "too few readings skip",
			temps:       []float64{41.0, 41.2},
			bpm:         70,
			wantOutcome: "",
		},
		{
			name:        "healthy readings",
			temps:       []float64{38.5, 38.6, 38.4, 38.5, 38.6},
			bpm:         70,
			wantOutcome: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVitalsFixture(t)
			f.addReadings(1, tt.temps, tt.bpm)

			outcome, err := f.service.CheckAnimal(context.Background(), 1)
			if err != nil {
				t.Fatalf("CheckAnimal() error = %v", err)
			}
			if outcome != tt.wantOutcome {
				t.Fatalf("outcome = %q, want %q", outcome, tt.wantOutcome)
			}
			if tt.wantOutcome != OutcomeCreate {
				if f.dispatcher.DispatchCount() != 0 {
					t.Errorf("DispatchCount() = %d, want 0", f.dispatcher.DispatchCount())
				}
				return
			}
			a := f.dispatcher.Dispatched[0]
			if a.Category != alert.CategoryHealth || a.Severity != alert.SeverityHigh {
				t.Errorf("got %s/%s, want health/high", a.Category, a.Severity)
			}
			if a.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", a.Message, tt.wantMsg)
			}
		})
	}
}

func TestVitalsService_CheckAnimal_SuppressedWithinWindow(t *testing.T) {
	f := newVitalsFixture(t)
	ctx := context.Background()
	f.addReadings(1, []float64{40.5, 40.6, 40.4, 40.7, 40.5}, 70)

	outcome, err := f.service.CheckAnimal(ctx, 1)
	if err != nil {
		t.Fatalf("CheckAnimal() error = %v", err)
	}
	if outcome != OutcomeCreate {
		t.Fatalf("first outcome = %q, want %q", outcome, OutcomeCreate)
	}

	outcome, err = f.service.CheckAnimal(ctx, 1)
	if err != nil {
		t.Fatalf("CheckAnimal() error = %v", err)
	}
	if outcome != OutcomeSuppress {
		t.Errorf("second outcome = %q, want %q", outcome, OutcomeSuppress)
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1", f.dispatcher.DispatchCount())
	}
}

func TestVitalsService_CheckAnimal_GeofenceAlertDoesNotSuppress(t *testing.T) {
	f := newVitalsFixture(t)
	ctx := context.Background()

	// An open geofence alert for the same animal is a different concern.
	f.alertRepo.Create(ctx, &alert.Alert{
		AnimalID: 1,
		FarmID:   1,
		Category: alert.CategoryGeofence,
		Severity: alert.SeverityHigh,
		Message:  "Nandini has strayed 450m from the farm boundary (boundary: 300m)",
	})

	f.addReadings(1, []float64{40.5, 40.6, 40.4, 40.7, 40.5}, 70)
	outcome, err := f.service.CheckAnimal(ctx, 1)
	if err != nil {
		t.Fatalf("CheckAnimal() error = %v", err)
	}
	if outcome != OutcomeCreate {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeCreate)
	}
}

func TestVitalsService_RunCheck(t *testing.T) {
	f := newVitalsFixture(t)
	f.herdRepo.Animals[2] = &herd.Animal{ID: 2, FarmID: 1, Name: "Gauri", Species: "cow"}

	f.addReadings(1, []float64{40.5, 40.6, 40.4, 40.7, 40.5}, 70) // feverish
	f.addReadings(2, []float64{38.5, 38.6, 38.4, 38.5, 38.6}, 70) // healthy

	summary, err := f.service.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}

	if summary.Evaluated != 2 {
		t.Errorf("Evaluated = %d, want 2", summary.Evaluated)
	}
	if summary.Created != 1 {
		t.Errorf("Created = %d, want 1", summary.Created)
	}
	if !strings.Contains(f.dispatcher.Dispatched[0].Message, "Isolation Required") {
		t.Errorf("unexpected message %q", f.dispatcher.Dispatched[0].Message)
	}
}
