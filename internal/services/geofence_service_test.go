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

// Green Valley farm center; ~0.00405 degrees of latitude is roughly 450m.
const (
	farmLat = 18.5204
	farmLng = 73.8567
)

func floatPtr(f float64) *float64 { return &f }

type geofenceFixture struct {
	herdRepo   *testutil.MockHerdRepository
	telemetry  *testutil.MockTelemetryRepository
	alertRepo  *testutil.MockAlertRepository
	dispatcher *testutil.MockDispatcher
	service    *GeofenceService
}

func newGeofenceFixture(t *testing.T) *geofenceFixture {
	t.Helper()
	herdRepo := testutil.NewMockHerdRepository()
	telemetryRepo := testutil.NewMockTelemetryRepository()
	alertRepo := testutil.NewMockAlertRepository()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	alerts := NewAlertService(alertRepo, dispatcher, log)
	dedup := NewDeduplicator(alertRepo)
	det := detector.NewGeofenceDetector(300)
	service := NewGeofenceService(herdRepo, telemetryRepo, alertRepo, alerts, dedup, det, 5*time.Minute, log)

	herdRepo.Farms[1] = &herd.Farm{
		ID:              1,
		Name:            "Green Valley",
		Latitude:        floatPtr(farmLat),
		Longitude:       floatPtr(farmLng),
		BoundaryRadiusM: 300,
	}

	return &geofenceFixture{
		herdRepo:   herdRepo,
		telemetry:  telemetryRepo,
		alertRepo:  alertRepo,
		dispatcher: dispatcher,
		service:    service,
	}
}

func (f *geofenceFixture) addAnimal(id int64, name string, lat, lng float64) {
	f.herdRepo.Animals[id] = &herd.Animal{
		ID:        id,
		FarmID:    1,
		Name:      name,
		Species:   "cow",
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lng),
	}
}

func TestGeofenceService_RunCheck_CreatesAlertOutsideBoundary(t *testing.T) {
	f := newGeofenceFixture(t)
	f.addAnimal(1, "Nandini", farmLat+0.00405, farmLng) // ~450m north

	summary, err := f.service.RunCheck(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}

	if summary.Created != 1 {
		t.Fatalf("Created = %d, want 1", summary.Created)
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1", f.dispatcher.DispatchCount())
	}

	a := f.dispatcher.Dispatched[0]
	if a.Category != alert.CategoryGeofence {
		t.Errorf("Category = %q, want %q", a.Category, alert.CategoryGeofence)
	}
	if a.Severity != alert.SeverityHigh {
		t.Errorf("Severity = %q, want %q", a.Severity, alert.SeverityHigh)
	}
	if !strings.Contains(a.Message, "Nandini has strayed") || !strings.Contains(a.Message, "(boundary: 300m)") {
		t.Errorf("unexpected message %q", a.Message)
	}
}

func TestGeofenceService_RunCheck_RefreshesWithoutRenotifying(t *testing.T) {
	f := newGeofenceFixture(t)
	f.addAnimal(1, "Nandini", farmLat+0.00405, farmLng)

	ctx := context.Background()
	if _, err := f.service.RunCheck(ctx, nil); err != nil {
		t.Fatalf("first RunCheck() error = %v", err)
	}

	// Animal drifts a bit further; the open alert is refreshed in place.
	f.addAnimal(1, "Nandini", farmLat+0.0045, farmLng)

	summary, err := f.service.RunCheck(ctx, nil)
	if err != nil {
		t.Fatalf("second RunCheck() error = %v", err)
	}

	if summary.Refreshed != 1 {
		t.Errorf("Refreshed = %d, want 1", summary.Refreshed)
	}
	if summary.Created != 0 {
		t.Errorf("Created = %d, want 0", summary.Created)
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1: refresh must not re-notify", f.dispatcher.DispatchCount())
	}
	if f.alertRepo.OpenCount() != 1 {
		t.Errorf("OpenCount() = %d, want 1", f.alertRepo.OpenCount())
	}
}

func TestGeofenceService_RunCheck_AutoResolvesOnReturn(t *testing.T) {
	f := newGeofenceFixture(t)
	f.addAnimal(1, "Nandini", farmLat+0.00405, farmLng)

	ctx := context.Background()
	if _, err := f.service.RunCheck(ctx, nil); err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}

	// Back inside the boundary.
	f.addAnimal(1, "Nandini", farmLat, farmLng)

	summary, err := f.service.RunCheck(ctx, nil)
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}

	if summary.Resolved != 1 {
		t.Errorf("Resolved = %d, want 1", summary.Resolved)
	}
	if f.alertRepo.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d, want 0", f.alertRepo.OpenCount())
	}
	for _, a := range f.alertRepo.Alerts {
		if a.ResolvedBy != alert.ResolvedBySystem {
			t.Errorf("ResolvedBy = %q, want %q", a.ResolvedBy, alert.ResolvedBySystem)
		}
		if a.ResolutionNotes != "animal returned within boundary" {
			t.Errorf("ResolutionNotes = %q", a.ResolutionNotes)
		}
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1: auto-resolution must not notify", f.dispatcher.DispatchCount())
	}
}

func TestGeofenceService_RunCheck_SkipsFarmWithoutBoundary(t *testing.T) {
	f := newGeofenceFixture(t)
	f.herdRepo.Farms[2] = &herd.Farm{ID: 2, Name: "No Fence"}
	f.herdRepo.Animals[5] = &herd.Animal{ID: 5, FarmID: 2, Name: "Gauri", Species: "cow"}

	summary, err := f.service.RunCheck(context.Background(), []int64{2})
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}
	if summary.Evaluated != 0 || summary.Skipped != 1 {
		t.Errorf("Evaluated = %d, Skipped = %d; want 0 evaluated, 1 skipped", summary.Evaluated, summary.Skipped)
	}
}

func TestGeofenceService_RunCheck_FallsBackToLatestWaypoint(t *testing.T) {
	f := newGeofenceFixture(t)
	f.herdRepo.Animals[1] = &herd.Animal{ID: 1, FarmID: 1, Name: "Nandini", Species: "cow"}
	f.telemetry.CreateWaypoint(context.Background(), &telemetry.Waypoint{
		AnimalID:   1,
		Latitude:   farmLat + 0.00405,
		Longitude:  farmLng,
		RecordedAt: time.Now().UTC(),
	})

	summary, err := f.service.RunCheck(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}
	if summary.Created != 1 {
		t.Errorf("Created = %d, want 1", summary.Created)
	}
}

func TestGeofenceService_CreateEscapeAlert_Cooldown(t *testing.T) {
	f := newGeofenceFixture(t)
	f.addAnimal(1, "Nandini", farmLat, farmLng)

	ctx := context.Background()
	first, outcome, err := f.service.CreateEscapeAlert(ctx, 1)
	if err != nil {
		t.Fatalf("CreateEscapeAlert() error = %v", err)
	}
	if outcome != OutcomeCreate {
		t.Fatalf("outcome = %v, want %v", outcome, OutcomeCreate)
	}
	if !strings.Contains(first.Message, "spotted outside the farm boundary") {
		t.Errorf("unexpected message %q", first.Message)
	}

	// Second report inside the cooldown is suppressed and returns the
	// existing alert.
	second, outcome, err := f.service.CreateEscapeAlert(ctx, 1)
	if err != nil {
		t.Fatalf("CreateEscapeAlert() error = %v", err)
	}
	if outcome != OutcomeSuppress {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeSuppress)
	}
	if second.ID != first.ID {
		t.Errorf("suppressed report returned alert %d, want %d", second.ID, first.ID)
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1", f.dispatcher.DispatchCount())
	}
}
