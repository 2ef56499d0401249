package services

import (
	"context"
	"testing"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/testutil"
)

func TestAlertService_Create(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	tests := []struct {
		name    string
		alert   *alert.Alert
		wantErr bool
	}{
		{
			name: "create geofence alert",
			alert: &alert.Alert{
				AnimalID: 1,
				FarmID:   1,
				Category: alert.CategoryGeofence,
				Severity: alert.SeverityHigh,
				Message:  "Nandini has strayed 450m from the farm boundary (boundary: 300m)",
			},
			wantErr: false,
		},
		{
			name: "create health alert",
			alert: &alert.Alert{
				AnimalID: 2,
				FarmID:   1,
				Category: alert.CategoryHealth,
				Severity: alert.SeverityHigh,
				Message:  "Isolation Required: Sustained Fever (4/5 readings > 40.0°C)",
			},
			wantErr: false,
		},
		{
			name: "unknown category rejected",
			alert: &alert.Alert{
				AnimalID: 1,
				FarmID:   1,
				Category: "weather",
				Severity: alert.SeverityLow,
				Message:  "raining",
			},
			wantErr: true,
		},
		{
			name: "unknown severity rejected",
			alert: &alert.Alert{
				AnimalID: 1,
				FarmID:   1,
				Category: alert.CategoryHealth,
				Severity: "catastrophic",
				Message:  "bad",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockAlertRepository()
			dispatcher := testutil.NewMockDispatcher()
			service := NewAlertService(repo, dispatcher, log)

			id, err := service.Create(context.Background(), tt.alert)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if dispatcher.DispatchCount() != 0 {
					t.Error("rejected alert must not be dispatched")
				}
				return
			}
			if id == 0 {
				t.Error("Create() returned 0 id")
			}
			if dispatcher.DispatchCount() != 1 {
				t.Errorf("DispatchCount() = %d, want exactly 1", dispatcher.DispatchCount())
			}
		})
	}
}

func TestAlertService_ResolveNeverDispatches(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAlertService(repo, dispatcher, log)

	ctx := context.Background()
	id, err := service.Create(ctx, &alert.Alert{
		AnimalID: 1,
		FarmID:   1,
		Category: alert.CategoryGeofence,
		Severity: alert.SeverityHigh,
		Message:  "strayed",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := service.Resolve(ctx, id, "ramesh", "brought her back"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if dispatcher.DispatchCount() != 1 {
		t.Errorf("DispatchCount() = %d, want 1: resolving must not re-notify", dispatcher.DispatchCount())
	}

	resolved, _ := service.GetByID(ctx, id)
	if resolved.IsOpen {
		t.Error("alert still open after Resolve()")
	}
	if resolved.ResolvedBy != "ramesh" {
		t.Errorf("ResolvedBy = %q, want %q", resolved.ResolvedBy, "ramesh")
	}
}

func TestAlertService_Resolve_RequiresResolver(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAlertService(repo, testutil.NewMockDispatcher(), log)

	if err := service.Resolve(context.Background(), 1, "", "notes"); err == nil {
		t.Error("Resolve() with empty resolved_by should fail")
	}
}

func TestAlertService_BulkResolve(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAlertService(repo, testutil.NewMockDispatcher(), log)

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		id, _ := service.Create(ctx, &alert.Alert{
			AnimalID: int64(i + 1),
			FarmID:   1,
			Category: alert.CategoryGeofence,
			Severity: alert.SeverityHigh,
			Message:  "strayed",
		})
		ids = append(ids, id)
	}

	// Resolve one up front; the bulk call should only count the other two.
	if err := service.Resolve(ctx, ids[0], "ramesh", ""); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	resolved, err := service.BulkResolve(ctx, ids, alert.ResolvedBySystem, "animal returned within boundary")
	if err != nil {
		t.Fatalf("BulkResolve() error = %v", err)
	}
	if resolved != 2 {
		t.Errorf("BulkResolve() = %d, want 2", resolved)
	}
	if repo.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d, want 0", repo.OpenCount())
	}
}

func TestAlertService_Summary(t *testing.T) {
	repo := testutil.NewMockAlertRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAlertService(repo, testutil.NewMockDispatcher(), log)

	ctx := context.Background()
	for _, severity := range []string{alert.SeverityHigh, alert.SeverityHigh, alert.SeverityMedium} {
		service.Create(ctx, &alert.Alert{
			AnimalID: 1,
			FarmID:   1,
			Category: alert.CategoryHealth,
			Severity: severity,
			Message:  "m",
		})
	}

	counts, err := service.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if counts[alert.SeverityHigh] != 2 {
		t.Errorf("high = %d, want 2", counts[alert.SeverityHigh])
	}
	if counts[alert.SeverityMedium] != 1 {
		t.Errorf("medium = %d, want 1", counts[alert.SeverityMedium])
	}
}
