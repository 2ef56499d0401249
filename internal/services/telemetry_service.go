package services

import (
	"context"
	"time"

	"github.com/pashupehchan/herdwatch/internal/devicestate"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

// TelemetryService ingests device readings and keeps the herd directory and
// device tracker current
type TelemetryService struct {
	telemetryRepo telemetry.Repository
	herdRepo      herd.Repository
	tracker       *devicestate.Tracker
	vitals        *VitalsService
	logger        *logger.Logger
}

// NewTelemetryService creates a new telemetry service. vitals may be nil, in
// which case vitals ingest skips the inline health check.
func NewTelemetryService(
	telemetryRepo telemetry.Repository,
	herdRepo herd.Repository,
	tracker *devicestate.Tracker,
	vitals *VitalsService,
	log *logger.Logger,
) *TelemetryService {
	return &TelemetryService{
		telemetryRepo: telemetryRepo,
		herdRepo:      herdRepo,
		tracker:       tracker,
		vitals:        vitals,
		logger:        log,
	}
}

// IngestWaypoint stores a GPS fix, updates the animal's directory position,
// and counts the device heartbeat
func (s *TelemetryService) IngestWaypoint(ctx context.Context, wp *telemetry.Waypoint) (int64, error) {
	animal, err := s.herdRepo.GetAnimal(ctx, wp.AnimalID)
	if err != nil {
		return 0, err
	}

	if wp.RecordedAt.IsZero() {
		wp.RecordedAt = time.Now().UTC()
	}

	id, err := s.telemetryRepo.CreateWaypoint(ctx, wp)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to store waypoint")
		return 0, err
	}

	if err := s.herdRepo.UpdateAnimalPosition(ctx, animal.ID, wp.Latitude, wp.Longitude, wp.RecordedAt); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"animal_id": animal.ID,
		}).ErrorWithErr(err, "Failed to update animal position")
	}

	s.tracker.Beat(animal.DeviceID)
	metrics.SetConnectedDevices(float64(s.tracker.ConnectedCount()))

	return id, nil
}

// IngestVitals stores a batch of readings for one animal, counts the device
// heartbeat, and runs the health check inline so a feverish animal is flagged
// on arrival rather than on the next sweep
func (s *TelemetryService) IngestVitals(ctx context.Context, animalID int64, readings []*telemetry.VitalsReading) (Outcome, error) {
	if len(readings) == 0 {
		return "", errors.BadRequest("no readings given")
	}

	animal, err := s.herdRepo.GetAnimal(ctx, animalID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	for _, r := range readings {
		r.AnimalID = animalID
		if r.RecordedAt.IsZero() {
			r.RecordedAt = now
		}
	}

	if err := s.telemetryRepo.CreateVitals(ctx, readings); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store vitals readings")
		return "", err
	}

	s.tracker.Beat(animal.DeviceID)
	metrics.SetConnectedDevices(float64(s.tracker.ConnectedCount()))

	if s.vitals == nil {
		return "", nil
	}

	outcome, err := s.vitals.CheckAnimal(ctx, animalID)
	if err != nil {
		// The readings are stored; a check failure here is the sweep's problem.
		s.logger.WithFields(map[string]interface{}{
			"animal_id": animalID,
		}).ErrorWithErr(err, "Inline vitals check failed")
		return "", nil
	}

	return outcome, nil
}

// Heartbeat records a bare device heartbeat and returns the wearing animal
func (s *TelemetryService) Heartbeat(ctx context.Context, deviceID string) (*herd.Animal, error) {
	animal, err := s.herdRepo.GetAnimalByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	s.tracker.Beat(deviceID)
	metrics.SetConnectedDevices(float64(s.tracker.ConnectedCount()))

	return animal, nil
}

// DeviceStatuses returns the connectivity of every device seen since startup
func (s *TelemetryService) DeviceStatuses() []devicestate.Status {
	return s.tracker.Snapshot()
}
