package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pashupehchan/herdwatch/internal/detector"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

const returnedWithinBoundaryNote = "animal returned within boundary"

// GeofenceService runs the boundary check across farms and handles escape
// reports from the vision system
type GeofenceService struct {
	herdRepo       herd.Repository
	telemetryRepo  telemetry.Repository
	alertRepo      alert.Repository
	alerts         AlertCreator
	dedup          *Deduplicator
	detector       *detector.GeofenceDetector
	escapeCooldown time.Duration
	logger         *logger.Logger
}

// NewGeofenceService creates a new geofence service
func NewGeofenceService(
	herdRepo herd.Repository,
	telemetryRepo telemetry.Repository,
	alertRepo alert.Repository,
	alerts AlertCreator,
	dedup *Deduplicator,
	det *detector.GeofenceDetector,
	escapeCooldown time.Duration,
	log *logger.Logger,
) *GeofenceService {
	return &GeofenceService{
		herdRepo:       herdRepo,
		telemetryRepo:  telemetryRepo,
		alertRepo:      alertRepo,
		alerts:         alerts,
		dedup:          dedup,
		detector:       det,
		escapeCooldown: escapeCooldown,
		logger:         log,
	}
}

// RunCheck evaluates every animal on the given farms (all farms when farmIDs
// is empty) against the farm boundary. One animal failing never stops the
// rest of the herd from being checked.
func (s *GeofenceService) RunCheck(ctx context.Context, farmIDs []int64) (*CheckSummary, error) {
	start := time.Now()
	summary := &CheckSummary{}

	farms, err := s.herdRepo.ListFarms(ctx, farmIDs)
	if err != nil {
		metrics.RecordCheckRun("geofence", "error", time.Since(start))
		return nil, errors.DetectorError("geofence", err)
	}

	for _, farm := range farms {
		if !farm.HasLocation() {
			s.logger.WithFields(map[string]interface{}{
				"farm_id": farm.ID,
			}).Warn("Farm has no boundary coordinates, skipping")
			summary.Skipped++
			continue
		}

		animals, err := s.herdRepo.ListAnimalsByFarm(ctx, farm.ID)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"farm_id": farm.ID,
			}).ErrorWithErr(err, "Failed to list farm animals")
			summary.Skipped++
			continue
		}

		for _, animal := range animals {
			if err := s.checkAnimal(ctx, farm, animal, summary); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"farm_id":   farm.ID,
					"animal_id": animal.ID,
				}).ErrorWithErr(err, "Geofence check failed for animal")
				summary.Skipped++
			}
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"evaluated": summary.Evaluated,
		"created":   summary.Created,
		"refreshed": summary.Refreshed,
		"resolved":  summary.Resolved,
		"skipped":   summary.Skipped,
	}).Info("Geofence check finished")
	metrics.RecordCheckRun("geofence", "ok", time.Since(start))

	return summary, nil
}

func (s *GeofenceService) checkAnimal(ctx context.Context, farm *herd.Farm, animal *herd.Animal, summary *CheckSummary) error {
	lat, lng, ok := s.position(ctx, animal)
	if !ok {
		summary.Skipped++
		return nil
	}

	summary.Evaluated++
	result := s.detector.Evaluate(lat, lng, *farm.Latitude, *farm.Longitude, farm.BoundaryRadiusM)

	if !result.Outside {
		resolved, err := s.resolveOpenGeofenceAlerts(ctx, animal.ID)
		if err != nil {
			return err
		}
		summary.Resolved += resolved
		return nil
	}

	message := detector.GeofenceMessage(animal.Name, result.DistanceM, result.RadiusM)

	decision, err := s.dedup.Evaluate(ctx, DedupKey{
		AnimalID:       animal.ID,
		Category:       alert.CategoryGeofence,
		Match:          MatchAny,
		RefreshOnMatch: true,
	})
	if err != nil {
		return err
	}

	switch decision.Outcome {
	case OutcomeRefresh:
		// Keep the open alert current without re-notifying.
		if err := s.alertRepo.Refresh(ctx, decision.Existing.ID, message, time.Now().UTC()); err != nil {
			return err
		}
		summary.Refreshed++
		metrics.RecordAlertOutcome(alert.CategoryGeofence, "refreshed")
	case OutcomeCreate:
		_, err := s.alerts.Create(ctx, &alert.Alert{
			AnimalID: animal.ID,
			FarmID:   farm.ID,
			Category: alert.CategoryGeofence,
			Severity: alert.SeverityHigh,
			Message:  message,
		})
		if err != nil {
			return err
		}
		summary.Created++
	default:
		summary.Suppressed++
		metrics.RecordAlertOutcome(alert.CategoryGeofence, "suppressed")
	}

	return nil
}

// position returns the animal's most recent coordinates, preferring the
// directory position and falling back to the latest waypoint
func (s *GeofenceService) position(ctx context.Context, animal *herd.Animal) (float64, float64, bool) {
	if animal.Latitude != nil && animal.Longitude != nil {
		return *animal.Latitude, *animal.Longitude, true
	}

	wp, err := s.telemetryRepo.LatestWaypoint(ctx, animal.ID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"animal_id": animal.ID,
		}).Debug("Animal has no known position, skipping")
		return 0, 0, false
	}
	return wp.Latitude, wp.Longitude, true
}

func (s *GeofenceService) resolveOpenGeofenceAlerts(ctx context.Context, animalID int64) (int, error) {
	open, err := s.alertRepo.FindOpen(ctx, animalID, alert.CategoryGeofence, nil)
	if err != nil {
		return 0, err
	}
	if len(open) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(open))
	for _, a := range open {
		ids = append(ids, a.ID)
	}

	resolved, err := s.alertRepo.BulkResolve(ctx, ids, alert.ResolvedBySystem, returnedWithinBoundaryNote, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"animal_id": animalID,
		"resolved":  resolved,
	}).Info("Animal back inside boundary, geofence alerts auto-resolved")
	metrics.RecordAlertOutcome(alert.CategoryGeofence, "auto_resolved")

	return int(resolved), nil
}

// CreateEscapeAlert raises a geofence alert reported by the vision system.
// Repeated reports inside the cooldown are suppressed rather than stacked.
func (s *GeofenceService) CreateEscapeAlert(ctx context.Context, animalID int64) (*alert.Alert, Outcome, error) {
	animal, err := s.herdRepo.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, "", err
	}

	decision, err := s.dedup.Evaluate(ctx, DedupKey{
		AnimalID: animal.ID,
		Category: alert.CategoryGeofence,
		Match:    MatchAny,
		Window:   s.escapeCooldown,
	})
	if err != nil {
		return nil, "", err
	}

	if decision.Outcome == OutcomeSuppress {
		s.logger.WithFields(map[string]interface{}{
			"animal_id": animal.ID,
			"alert_id":  decision.Existing.ID,
		}).Info("Escape report suppressed by cooldown")
		metrics.RecordAlertOutcome(alert.CategoryGeofence, "suppressed")
		return decision.Existing, OutcomeSuppress, nil
	}

	a := &alert.Alert{
		AnimalID: animal.ID,
		FarmID:   animal.FarmID,
		Category: alert.CategoryGeofence,
		Severity: alert.SeverityHigh,
		Message:  fmt.Sprintf("%s has been spotted outside the farm boundary", animal.Name),
	}
	if _, err := s.alerts.Create(ctx, a); err != nil {
		return nil, "", err
	}

	return a, OutcomeCreate, nil
}
