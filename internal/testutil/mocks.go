package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/domain/vaccination"
)

// MockAlertRepository is a mock implementation of alert.Repository
type MockAlertRepository struct {
	mu          sync.Mutex
	Alerts      map[int64]*alert.Alert
	NextID      int64
	CreateError error
	FindError   error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Alerts: make(map[int64]*alert.Alert),
		NextID: 1,
	}
}

func (m *MockAlertRepository) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.NextID
	m.NextID++
	a.ID = id
	a.IsOpen = true
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.Alerts[id] = a
	return id, nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok {
		return nil, fmt.Errorf("alert not found")
	}
	return a, nil
}

func (m *MockAlertRepository) FindOpen(ctx context.Context, animalID int64, category string, since *time.Time) ([]*alert.Alert, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*alert.Alert
	for _, a := range m.Alerts {
		if !a.IsOpen || a.AnimalID != animalID || a.Category != category {
			continue
		}
		if since != nil && a.CreatedAt.Before(*since) {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockAlertRepository) Refresh(ctx context.Context, id int64, message string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok || !a.IsOpen {
		return fmt.Errorf("alert not found")
	}
	a.Message = message
	a.CreatedAt = createdAt
	return nil
}

func (m *MockAlertRepository) Resolve(ctx context.Context, id int64, resolvedBy, notes string, resolvedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Alerts[id]
	if !ok || !a.IsOpen {
		return fmt.Errorf("alert not found")
	}
	a.IsOpen = false
	a.ResolvedAt = &resolvedAt
	a.ResolvedBy = resolvedBy
	a.ResolutionNotes = notes
	return nil
}

func (m *MockAlertRepository) BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string, resolvedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var resolved int64
	for _, id := range ids {
		a, ok := m.Alerts[id]
		if !ok || !a.IsOpen {
			continue
		}
		a.IsOpen = false
		a.ResolvedAt = &resolvedAt
		a.ResolvedBy = resolvedBy
		a.ResolutionNotes = notes
		resolved++
	}
	return resolved, nil
}

func (m *MockAlertRepository) ListWithPagination(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*alert.Alert
	for _, a := range m.Alerts {
		if filter.AnimalID != 0 && a.AnimalID != filter.AnimalID {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.IsOpen != nil && a.IsOpen != *filter.IsOpen {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (m *MockAlertRepository) CountBySeverity(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range m.Alerts {
		if a.IsOpen {
			counts[a.Severity]++
		}
	}
	return counts, nil
}

// OpenCount returns how many alerts are currently open
func (m *MockAlertRepository) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.Alerts {
		if a.IsOpen {
			n++
		}
	}
	return n
}

// MockHerdRepository is a mock implementation of herd.Repository
type MockHerdRepository struct {
	Animals    map[int64]*herd.Animal
	Farms      map[int64]*herd.Farm
	Caretakers map[int64][]*herd.Caretaker
	GetError   error
}

func NewMockHerdRepository() *MockHerdRepository {
	return &MockHerdRepository{
		Animals:    make(map[int64]*herd.Animal),
		Farms:      make(map[int64]*herd.Farm),
		Caretakers: make(map[int64][]*herd.Caretaker),
	}
}

func (m *MockHerdRepository) GetAnimal(ctx context.Context, id int64) (*herd.Animal, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Animals[id]
	if !ok {
		return nil, fmt.Errorf("animal not found")
	}
	return a, nil
}

func (m *MockHerdRepository) GetAnimalByDevice(ctx context.Context, deviceID string) (*herd.Animal, error) {
	for _, a := range m.Animals {
		if a.DeviceID == deviceID {
			return a, nil
		}
	}
	return nil, fmt.Errorf("animal not found")
}

func (m *MockHerdRepository) ListAnimalsByFarm(ctx context.Context, farmID int64) ([]*herd.Animal, error) {
	var result []*herd.Animal
	for _, a := range m.Animals {
		if a.FarmID == farmID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockHerdRepository) UpdateAnimalPosition(ctx context.Context, animalID int64, lat, lng float64, seenAt time.Time) error {
	a, ok := m.Animals[animalID]
	if !ok {
		return fmt.Errorf("animal not found")
	}
	a.Latitude = &lat
	a.Longitude = &lng
	a.LastSeenAt = &seenAt
	return nil
}

func (m *MockHerdRepository) GetFarm(ctx context.Context, id int64) (*herd.Farm, error) {
	f, ok := m.Farms[id]
	if !ok {
		return nil, fmt.Errorf("farm not found")
	}
	return f, nil
}

func (m *MockHerdRepository) ListFarms(ctx context.Context, ids []int64) ([]*herd.Farm, error) {
	var result []*herd.Farm
	if len(ids) == 0 {
		for _, f := range m.Farms {
			result = append(result, f)
		}
	} else {
		for _, id := range ids {
			if f, ok := m.Farms[id]; ok {
				result = append(result, f)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockHerdRepository) ListCaretakers(ctx context.Context, farmID int64) ([]*herd.Caretaker, error) {
	return m.Caretakers[farmID], nil
}

// MockTelemetryRepository is a mock implementation of telemetry.Repository
type MockTelemetryRepository struct {
	Waypoints map[int64][]*telemetry.Waypoint
	Vitals    map[int64][]*telemetry.VitalsReading
	NextID    int64
}

func NewMockTelemetryRepository() *MockTelemetryRepository {
	return &MockTelemetryRepository{
		Waypoints: make(map[int64][]*telemetry.Waypoint),
		Vitals:    make(map[int64][]*telemetry.VitalsReading),
		NextID:    1,
	}
}

func (m *MockTelemetryRepository) CreateWaypoint(ctx context.Context, wp *telemetry.Waypoint) (int64, error) {
	wp.ID = m.NextID
	m.NextID++
	m.Waypoints[wp.AnimalID] = append(m.Waypoints[wp.AnimalID], wp)
	return wp.ID, nil
}

func (m *MockTelemetryRepository) LatestWaypoint(ctx context.Context, animalID int64) (*telemetry.Waypoint, error) {
	wps := m.Waypoints[animalID]
	if len(wps) == 0 {
		return nil, fmt.Errorf("no waypoints")
	}
	latest := wps[0]
	for _, wp := range wps[1:] {
		if wp.RecordedAt.After(latest.RecordedAt) {
			latest = wp
		}
	}
	return latest, nil
}

func (m *MockTelemetryRepository) CreateVitals(ctx context.Context, readings []*telemetry.VitalsReading) error {
	for _, r := range readings {
		r.ID = m.NextID
		m.NextID++
		m.Vitals[r.AnimalID] = append(m.Vitals[r.AnimalID], r)
	}
	return nil
}

func (m *MockTelemetryRepository) RecentVitals(ctx context.Context, animalID int64, since time.Time, limit int) ([]*telemetry.VitalsReading, error) {
	var result []*telemetry.VitalsReading
	for _, r := range m.Vitals[animalID] {
		if !r.RecordedAt.Before(since) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt.After(result[j].RecordedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockTelemetryRepository) AnimalIDsWithVitalsSince(ctx context.Context, since time.Time) ([]int64, error) {
	var ids []int64
	for animalID, readings := range m.Vitals {
		for _, r := range readings {
			if !r.RecordedAt.Before(since) {
				ids = append(ids, animalID)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// MockVaccinationRepository is a mock implementation of vaccination.Repository
type MockVaccinationRepository struct {
	Events map[int64]*vaccination.Event
	NextID int64
}

func NewMockVaccinationRepository() *MockVaccinationRepository {
	return &MockVaccinationRepository{
		Events: make(map[int64]*vaccination.Event),
		NextID: 1,
	}
}

func (m *MockVaccinationRepository) Create(ctx context.Context, event *vaccination.Event) (int64, error) {
	event.ID = m.NextID
	m.NextID++
	if event.Status == "" {
		event.Status = vaccination.StatusScheduled
	}
	m.Events[event.ID] = event
	return event.ID, nil
}

func (m *MockVaccinationRepository) GetByID(ctx context.Context, id int64) (*vaccination.Event, error) {
	e, ok := m.Events[id]
	if !ok {
		return nil, fmt.Errorf("vaccination event not found")
	}
	return e, nil
}

func (m *MockVaccinationRepository) ListByAnimal(ctx context.Context, animalID int64, status string) ([]*vaccination.Event, error) {
	var result []*vaccination.Event
	for _, e := range m.Events {
		if e.AnimalID != animalID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockVaccinationRepository) MarkOverdueMissed(ctx context.Context, now time.Time) (int64, error) {
	var changed int64
	for _, e := range m.Events {
		if e.Status == vaccination.StatusScheduled && e.DueDate.Before(now) {
			e.Status = vaccination.StatusMissed
			changed++
		}
	}
	return changed, nil
}

func (m *MockVaccinationRepository) ListMissed(ctx context.Context) ([]*vaccination.Event, error) {
	var result []*vaccination.Event
	for _, e := range m.Events {
		if e.Status == vaccination.StatusMissed {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockVaccinationRepository) MarkAdministered(ctx context.Context, id int64, at time.Time) error {
	e, ok := m.Events[id]
	if !ok {
		return fmt.Errorf("vaccination event not found")
	}
	e.Status = vaccination.StatusAdministered
	e.AdministeredAt = &at
	return nil
}

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mu          sync.Mutex
	Preferences map[int64]*notification.Preference
	Logs        []*notification.Log
	NextLogID   int
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		Preferences: make(map[int64]*notification.Preference),
		NextLogID:   1,
	}
}

func (m *MockNotificationRepository) GetPreference(ctx context.Context, caretakerID int64) (*notification.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Preferences[caretakerID]; ok {
		return p, nil
	}
	return notification.DefaultPreference(caretakerID), nil
}

func (m *MockNotificationRepository) UpsertPreference(ctx context.Context, preference *notification.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Preferences[preference.CaretakerID] = preference
	return nil
}

func (m *MockNotificationRepository) CreateLog(ctx context.Context, log *notification.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if log.ID == "" {
		log.ID = fmt.Sprintf("log-%d", m.NextLogID)
		m.NextLogID++
	}
	log.CreatedAt = time.Now().UTC()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockNotificationRepository) UpdateLog(ctx context.Context, log *notification.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.Logs {
		if l.ID == log.ID {
			m.Logs[i] = log
			return nil
		}
	}
	return fmt.Errorf("log not found")
}

func (m *MockNotificationRepository) ListLogsByAlert(ctx context.Context, alertID int64) ([]*notification.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*notification.Log
	for _, l := range m.Logs {
		if l.AlertID == alertID {
			result = append(result, l)
		}
	}
	return result, nil
}

// LogsByStatus returns the recorded logs currently in the given status
func (m *MockNotificationRepository) LogsByStatus(status notification.DeliveryStatus) []*notification.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*notification.Log
	for _, l := range m.Logs {
		if l.Status == status {
			result = append(result, l)
		}
	}
	return result
}

// MockSender is a mock implementation of notification.Sender
type MockSender struct {
	mu        sync.Mutex
	ChannelID notification.Channel
	SendError error
	Sent      []*notification.Message
}

func NewMockSender(channel notification.Channel) *MockSender {
	return &MockSender{ChannelID: channel}
}

func (m *MockSender) Send(ctx context.Context, msg *notification.Message) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockSender) Channel() notification.Channel {
	return m.ChannelID
}

// SentCount returns how many messages the sender delivered
func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// MockDispatcher is a mock implementation of notification.Dispatcher that
// records dispatched alerts
type MockDispatcher struct {
	mu         sync.Mutex
	Dispatched []*alert.Alert
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(a *alert.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dispatched = append(m.Dispatched, a)
}

// DispatchCount returns how many alerts were dispatched
func (m *MockDispatcher) DispatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Dispatched)
}
