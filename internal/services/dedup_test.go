package services

import (
	"context"
	"testing"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/testutil"
)

func TestMatchText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		message string
		want    bool
	}{
		{
			name:    "exact substring",
			text:    "FMD Booster",
			message: "Missed vaccination: FMD Booster was due on 2026-08-01",
			want:    true,
		},
		{
			name:    "case insensitive",
			text:    "fmd booster",
			message: "Missed vaccination: FMD Booster was due on 2026-08-01",
			want:    true,
		},
		{
			name:    "different vaccine does not match",
			text:    "Anthrax",
			message: "Missed vaccination: FMD Booster was due on 2026-08-01",
			want:    false,
		},
		{
			name:    "regex metacharacters are literal",
			text:    "Dose (1/2)",
			message: "Missed vaccination: Dose (1/2) was due on 2026-08-01",
			want:    true,
		},
		{
			name:    "metacharacters do not widen the match",
			text:    "Dose (1/2)",
			message: "Missed vaccination: Dose 12 was due on 2026-08-01",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchText(tt.text)(tt.message); got != tt.want {
				t.Errorf("MatchText(%q)(%q) = %v, want %v", tt.text, tt.message, got, tt.want)
			}
		})
	}
}

func TestDeduplicator_Evaluate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	newDedup := func(repo *testutil.MockAlertRepository) *Deduplicator {
		d := NewDeduplicator(repo)
		d.now = func() time.Time { return now }
		return d
	}

	t.Run("no open alert creates", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		d := newDedup(repo)

		decision, err := d.Evaluate(ctx, DedupKey{AnimalID: 1, Category: alert.CategoryGeofence})
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if decision.Outcome != OutcomeCreate {
			t.Errorf("Outcome = %v, want %v", decision.Outcome, OutcomeCreate)
		}
	})

	t.Run("open alert suppresses", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		id, _ := repo.Create(ctx, &alert.Alert{
			AnimalID: 1,
			Category: alert.CategoryGeofence,
			Message:  "Nandini has strayed 450m from the farm boundary",
		})
		d := newDedup(repo)

		decision, err := d.Evaluate(ctx, DedupKey{AnimalID: 1, Category: alert.CategoryGeofence})
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if decision.Outcome != OutcomeSuppress {
			t.Errorf("Outcome = %v, want %v", decision.Outcome, OutcomeSuppress)
		}
		if decision.Existing == nil || decision.Existing.ID != id {
			t.Errorf("Existing = %+v, want alert %d", decision.Existing, id)
		}
	})

	t.Run("refresh on match", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		repo.Create(ctx, &alert.Alert{AnimalID: 1, Category: alert.CategoryGeofence, Message: "strayed"})
		d := newDedup(repo)

		decision, _ := d.Evaluate(ctx, DedupKey{
			AnimalID:       1,
			Category:       alert.CategoryGeofence,
			RefreshOnMatch: true,
		})
		if decision.Outcome != OutcomeRefresh {
			t.Errorf("Outcome = %v, want %v", decision.Outcome, OutcomeRefresh)
		}
	})

	t.Run("resolved alert never blocks", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		id, _ := repo.Create(ctx, &alert.Alert{AnimalID: 1, Category: alert.CategoryGeofence, Message: "strayed"})
		repo.Resolve(ctx, id, alert.ResolvedBySystem, "animal returned within boundary", now)
		d := newDedup(repo)

		decision, _ := d.Evaluate(ctx, DedupKey{AnimalID: 1, Category: alert.CategoryGeofence})
		if decision.Outcome != OutcomeCreate {
			t.Errorf("Outcome = %v, want %v", decision.Outcome, OutcomeCreate)
		}
	})

	t.Run("window excludes old alerts", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		repo.Create(ctx, &alert.Alert{
			AnimalID:  1,
			Category:  alert.CategoryGeofence,
			Message:   "strayed",
			CreatedAt: now.Add(-10 * time.Minute),
		})
		d := newDedup(repo)

		decision, _ := d.Evaluate(ctx, DedupKey{
			AnimalID: 1,
			Category: alert.CategoryGeofence,
			Window:   5 * time.Minute,
		})
		if decision.Outcome != OutcomeCreate {
			t.Errorf("Outcome = %v, want %v: alert outside the window should not block", decision.Outcome, OutcomeCreate)
		}
	})

	t.Run("window includes fresh alerts", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		repo.Create(ctx, &alert.Alert{
			AnimalID:  1,
			Category:  alert.CategoryGeofence,
			Message:   "strayed",
			CreatedAt: now.Add(-2 * time.Minute),
		})
		d := newDedup(repo)

		decision, _ := d.Evaluate(ctx, DedupKey{
			AnimalID: 1,
			Category: alert.CategoryGeofence,
			Window:   5 * time.Minute,
		})
		if decision.Outcome != OutcomeSuppress {
			t.Errorf("Outcome = %v, want %v", decision.Outcome, OutcomeSuppress)
		}
	})

	t.Run("match predicate filters by message", func(t *testing.T) {
		repo := testutil.NewMockAlertRepository()
		repo.Create(ctx, &alert.Alert{
			AnimalID: 1,
			Category: alert.CategoryVaccination,
			Message:  "Missed vaccination: Anthrax was due on 2026-07-15",
		})
		d := newDedup(repo)

		decision, _ := d.Evaluate(ctx, DedupKey{
			AnimalID: 1,
			Category: alert.CategoryVaccination,
			Match:    MatchText("FMD Booster"),
		})
		if decision.Outcome != OutcomeCreate {
			t.Errorf("Outcome = %v, want %v: different vaccine should not block", decision.Outcome, OutcomeCreate)
		}
	})
}
