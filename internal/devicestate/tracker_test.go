package devicestate

import (
	"testing"
	"time"
)

func TestTrackerConnected(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		beatAgo time.Duration
		seen    bool
		want    bool
	}{
		{"never seen", 0, false, false},
		{"fresh heartbeat", 2 * time.Second, true, true},
		{"exactly at timeout", 15 * time.Second, true, true},
		{"stale heartbeat", 16 * time.Second, true, false},
		{"long gone", 5 * time.Minute, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(15 * time.Second)
			now := base
			tr.now = func() time.Time { return now }

			if tt.seen {
				tr.Beat("collar-7")
				now = base.Add(tt.beatAgo)
			}

			if got := tr.Connected("collar-7"); got != tt.want {
				t.Errorf("Connected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackerReconnect(t *testing.T) {
	tr := NewTracker(15 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	tr.Beat("collar-7")
	now = now.Add(time.Minute)
	if tr.Connected("collar-7") {
		t.Fatal("device should be stale after a minute of silence")
	}

	// A new heartbeat brings it straight back.
	tr.Beat("collar-7")
	if !tr.Connected("collar-7") {
		t.Fatal("device should reconnect on new heartbeat")
	}
}

func TestTrackerSnapshot(t *testing.T) {
	tr := NewTracker(15 * time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }

	tr.Beat("collar-1")
	now = now.Add(30 * time.Second)
	tr.Beat("collar-2")

	statuses := tr.Snapshot()
	if len(statuses) != 2 {
		t.Fatalf("Snapshot() returned %d statuses, want 2", len(statuses))
	}

	byID := make(map[string]Status)
	for _, s := range statuses {
		byID[s.DeviceID] = s
	}
	if byID["collar-1"].Connected {
		t.Error("collar-1 should be stale")
	}
	if !byID["collar-2"].Connected {
		t.Error("collar-2 should be connected")
	}

	if got := tr.ConnectedCount(); got != 1 {
		t.Errorf("ConnectedCount() = %d, want 1", got)
	}
}

func TestTrackerIgnoresEmptyDeviceID(t *testing.T) {
	tr := NewTracker(0)
	tr.Beat("")
	if len(tr.Snapshot()) != 0 {
		t.Error("empty device IDs should not be tracked")
	}
}
