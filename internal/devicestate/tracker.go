package devicestate

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a device stays connected after its last heartbeat.
const DefaultTimeout = 15 * time.Second

// Tracker keeps per-device heartbeat timestamps in process memory.
// Connectivity is derived from timestamp freshness at read time, so a device
// that stops reporting goes stale without any background sweeper.
type Tracker struct {
	mu      sync.RWMutex
	timeout time.Duration
	beats   map[string]time.Time
	now     func() time.Time
}

// Status describes one device's connectivity
type Status struct {
	DeviceID      string     `json:"device_id"`
	Connected     bool       `json:"connected"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
}

// NewTracker creates a tracker with the given staleness timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewTracker(timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{
		timeout: timeout,
		beats:   make(map[string]time.Time),
		now:     time.Now,
	}
}

// Beat records a heartbeat for the device
func (t *Tracker) Beat(deviceID string) {
	if deviceID == "" {
		return
	}
	t.mu.Lock()
	t.beats[deviceID] = t.now()
	t.mu.Unlock()
}

// Connected reports whether the device heartbeat is fresh.
// Devices never seen are disconnected.
func (t *Tracker) Connected(deviceID string) bool {
	t.mu.RLock()
	last, ok := t.beats[deviceID]
	t.mu.RUnlock()
	if !ok {
		return false
	}
	return t.now().Sub(last) <= t.timeout
}

// Snapshot returns the status of every device seen so far
func (t *Tracker) Snapshot() []Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	statuses := make([]Status, 0, len(t.beats))
	for id, last := range t.beats {
		last := last
		statuses = append(statuses, Status{
			DeviceID:      id,
			Connected:     now.Sub(last) <= t.timeout,
			LastHeartbeat: &last,
		})
	}
	return statuses
}

// ConnectedCount returns how many devices currently have a fresh heartbeat
func (t *Tracker) ConnectedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	count := 0
	for _, last := range t.beats {
		if now.Sub(last) <= t.timeout {
			count++
		}
	}
	return count
}
