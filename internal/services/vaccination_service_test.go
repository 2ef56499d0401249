package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/vaccination"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/testutil"
)

type vaccinationFixture struct {
	vaccRepo   *testutil.MockVaccinationRepository
	herdRepo   *testutil.MockHerdRepository
	alertRepo  *testutil.MockAlertRepository
	dispatcher *testutil.MockDispatcher
	service    *VaccinationService
}

func newVaccinationFixture(t *testing.T) *vaccinationFixture {
	t.Helper()
	vaccRepo := testutil.NewMockVaccinationRepository()
	herdRepo := testutil.NewMockHerdRepository()
	alertRepo := testutil.NewMockAlertRepository()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	alerts := NewAlertService(alertRepo, dispatcher, log)
	dedup := NewDeduplicator(alertRepo)
	service := NewVaccinationService(vaccRepo, herdRepo, alertRepo, alerts, dedup, log)

	herdRepo.Animals[1] = &herd.Animal{ID: 1, FarmID: 1, Name: "Nandini", Species: "cow"}

	return &vaccinationFixture{
		vaccRepo:   vaccRepo,
		herdRepo:   herdRepo,
		alertRepo:  alertRepo,
		dispatcher: dispatcher,
		service:    service,
	}
}

func TestVaccinationService_RunCheck_MarksMissedAndAlerts(t *testing.T) {
	f := newVaccinationFixture(t)
	ctx := context.Background()

	dueDate := time.Now().UTC().AddDate(0, 0, -10)
	f.vaccRepo.Create(ctx, &vaccination.Event{
		AnimalID:    1,
		VaccineName: "FMD Booster",
		DueDate:     dueDate,
		Status:      vaccination.StatusScheduled,
	})

	summary, err := f.service.RunCheck(ctx)
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}

	if summary.Created != 1 {
		t.Fatalf("Created = %d, want 1", summary.Created)
	}

	event, _ := f.vaccRepo.GetByID(ctx, 1)
	if event.Status != vaccination.StatusMissed {
		t.Errorf("Status = %q, want %q", event.Status, vaccination.StatusMissed)
	}

	a := f.dispatcher.Dispatched[0]
	if a.Category != alert.CategoryVaccination {
		t.Errorf("Category = %q, want %q", a.Category, alert.CategoryVaccination)
	}
	// 10 days past due stays medium; over 30 escalates to high.
	if a.Severity != alert.SeverityMedium {
		t.Errorf("Severity = %q, want %q", a.Severity, alert.SeverityMedium)
	}
	want := "Missed vaccination: FMD Booster was due on " + dueDate.Format("2006-01-02")
	if a.Message != want {
		t.Errorf("Message = %q, want %q", a.Message, want)
	}
}

func TestVaccinationService_RunCheck_Idempotent(t *testing.T) {
	f := newVaccinationFixture(t)
	ctx := context.Background()

	f.vaccRepo.Create(ctx, &vaccination.Event{
		AnimalID:    1,
		VaccineName: "FMD Booster",
		DueDate:     time.Now().UTC().AddDate(0, 0, -40),
		Status:      vaccination.StatusScheduled,
	})

	if _, err := f.service.RunCheck(ctx); err != nil {
		t.Fatalf("first RunCheck() error = %v", err)
	}

	summary, err := f.service.RunCheck(ctx)
	if err != nil {
		t.Fatalf("second RunCheck() error = %v", err)
	}

	if summary.Created != 0 {
		t.Errorf("Created = %d, want 0 on re-run", summary.Created)
	}
	if summary.Suppressed != 1 {
		t.Errorf("Suppressed = %d, want 1", summary.Suppressed)
	}
	if f.dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1", f.dispatcher.DispatchCount())
	}
	// 40 days past due escalates.
	if f.dispatcher.Dispatched[0].Severity != alert.SeverityHigh {
		t.Errorf("Severity = %q, want %q", f.dispatcher.Dispatched[0].Severity, alert.SeverityHigh)
	}
}

func TestVaccinationService_RunCheck_DistinctVaccinesAlertSeparately(t *testing.T) {
	f := newVaccinationFixture(t)
	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, -5)
	f.vaccRepo.Create(ctx, &vaccination.Event{AnimalID: 1, VaccineName: "FMD Booster", DueDate: due})
	f.vaccRepo.Create(ctx, &vaccination.Event{AnimalID: 1, VaccineName: "Anthrax", DueDate: due})

	summary, err := f.service.RunCheck(ctx)
	if err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}
	if summary.Created != 2 {
		t.Errorf("Created = %d, want 2: different vaccines must not dedup against each other", summary.Created)
	}
}

func TestVaccinationService_MarkAdministered_ResolvesAlerts(t *testing.T) {
	f := newVaccinationFixture(t)
	ctx := context.Background()

	id, _ := f.vaccRepo.Create(ctx, &vaccination.Event{
		AnimalID:    1,
		VaccineName: "FMD Booster",
		DueDate:     time.Now().UTC().AddDate(0, 0, -10),
	})
	f.vaccRepo.Create(ctx, &vaccination.Event{
		AnimalID:    1,
		VaccineName: "Anthrax",
		DueDate:     time.Now().UTC().AddDate(0, 0, -10),
	})

	if _, err := f.service.RunCheck(ctx); err != nil {
		t.Fatalf("RunCheck() error = %v", err)
	}
	if f.alertRepo.OpenCount() != 2 {
		t.Fatalf("OpenCount() = %d, want 2", f.alertRepo.OpenCount())
	}

	event, err := f.service.MarkAdministered(ctx, id)
	if err != nil {
		t.Fatalf("MarkAdministered() error = %v", err)
	}
	if event.Status != vaccination.StatusAdministered {
		t.Errorf("Status = %q, want %q", event.Status, vaccination.StatusAdministered)
	}
	if event.AdministeredAt == nil {
		t.Error("AdministeredAt not set")
	}

	// Only the FMD alert closes; the Anthrax one stays open.
	if f.alertRepo.OpenCount() != 1 {
		t.Errorf("OpenCount() = %d, want 1", f.alertRepo.OpenCount())
	}
	for _, a := range f.alertRepo.Alerts {
		if a.IsOpen {
			continue
		}
		if !strings.Contains(a.Message, "FMD Booster") {
			t.Errorf("resolved wrong alert: %q", a.Message)
		}
		if a.ResolvedBy != alert.ResolvedBySystem {
			t.Errorf("ResolvedBy = %q, want %q", a.ResolvedBy, alert.ResolvedBySystem)
		}
	}
}

func TestVaccinationService_Schedule(t *testing.T) {
	f := newVaccinationFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		animalID    int64
		vaccineName string
		wantErr     bool
	}{
		{name: "valid schedule", animalID: 1, vaccineName: "FMD Booster", wantErr: false},
		{name: "unknown animal", animalID: 99, vaccineName: "FMD Booster", wantErr: true},
		{name: "empty vaccine name", animalID: 1, vaccineName: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := f.service.Schedule(ctx, tt.animalID, tt.vaccineName, time.Now().UTC().AddDate(0, 1, 0))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Schedule() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && event.Status != vaccination.StatusScheduled {
				t.Errorf("Status = %q, want %q", event.Status, vaccination.StatusScheduled)
			}
		})
	}
}
