package services

import (
	"context"
	"time"

	"github.com/pashupehchan/herdwatch/internal/detector"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

// VitalsService applies the sustained-pattern health rule to recent sensor
// readings
type VitalsService struct {
	telemetryRepo telemetry.Repository
	herdRepo      herd.Repository
	alerts        AlertCreator
	dedup         *Deduplicator
	thresholds    detector.VitalsThresholds
	window        time.Duration
	maxReadings   int
	dedupWindow   time.Duration
	logger        *logger.Logger
}

// NewVitalsService creates a new vitals service
func NewVitalsService(
	telemetryRepo telemetry.Repository,
	herdRepo herd.Repository,
	alerts AlertCreator,
	dedup *Deduplicator,
	thresholds detector.VitalsThresholds,
	window time.Duration,
	maxReadings int,
	dedupWindow time.Duration,
	log *logger.Logger,
) *VitalsService {
	return &VitalsService{
		telemetryRepo: telemetryRepo,
		herdRepo:      herdRepo,
		alerts:        alerts,
		dedup:         dedup,
		thresholds:    thresholds,
		window:        window,
		maxReadings:   maxReadings,
		dedupWindow:   dedupWindow,
		logger:        log,
	}
}

// CheckAnimal evaluates one animal's recent readings. Returns the dedup
// outcome, or empty when the rule did not trigger.
func (s *VitalsService) CheckAnimal(ctx context.Context, animalID int64) (Outcome, error) {
	since := time.Now().UTC().Add(-s.window)
	readings, err := s.telemetryRepo.RecentVitals(ctx, animalID, since, s.maxReadings)
	if err != nil {
		return "", errors.DetectorError("vitals", err)
	}

	if len(readings) < s.thresholds.MinReadings {
		s.logger.WithFields(map[string]interface{}{
			"animal_id": animalID,
			"readings":  len(readings),
		}).Debug("Not enough recent readings for vitals check")
		return "", nil
	}

	samples := make([]detector.Reading, len(readings))
	for i, r := range readings {
		samples[i] = detector.Reading{
			TemperatureC: r.TemperatureC,
			HeartRateBPM: r.HeartRateBPM,
		}
	}

	finding := s.thresholds.Evaluate(samples)
	if !finding.Triggered {
		return "", nil
	}

	// A health alert raised within the dedup window covers this episode.
	decision, err := s.dedup.Evaluate(ctx, DedupKey{
		AnimalID: animalID,
		Category: alert.CategoryHealth,
		Match:    MatchText(detector.IsolationMarker),
		Window:   s.dedupWindow,
	})
	if err != nil {
		return "", err
	}

	if decision.Outcome != OutcomeCreate {
		metrics.RecordAlertOutcome(alert.CategoryHealth, "suppressed")
		return OutcomeSuppress, nil
	}

	animal, err := s.herdRepo.GetAnimal(ctx, animalID)
	if err != nil {
		return "", err
	}

	_, err = s.alerts.Create(ctx, &alert.Alert{
		AnimalID: animalID,
		FarmID:   animal.FarmID,
		Category: alert.CategoryHealth,
		Severity: alert.SeverityHigh,
		Message:  finding.Message(),
	})
	if err != nil {
		return "", err
	}

	return OutcomeCreate, nil
}

// RunCheck evaluates every animal with readings inside the window
func (s *VitalsService) RunCheck(ctx context.Context) (*CheckSummary, error) {
	start := time.Now()
	summary := &CheckSummary{}

	since := time.Now().UTC().Add(-s.window)
	animalIDs, err := s.telemetryRepo.AnimalIDsWithVitalsSince(ctx, since)
	if err != nil {
		metrics.RecordCheckRun("vitals", "error", time.Since(start))
		return nil, errors.DetectorError("vitals", err)
	}

	for _, id := range animalIDs {
		summary.Evaluated++
		outcome, err := s.CheckAnimal(ctx, id)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"animal_id": id,
			}).ErrorWithErr(err, "Vitals check failed for animal")
			summary.Skipped++
			continue
		}
		switch outcome {
		case OutcomeCreate:
			summary.Created++
		case OutcomeSuppress:
			summary.Suppressed++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"evaluated":  summary.Evaluated,
		"created":    summary.Created,
		"suppressed": summary.Suppressed,
		"skipped":    summary.Skipped,
	}).Info("Vitals check finished")
	metrics.RecordCheckRun("vitals", "ok", time.Since(start))

	return summary, nil
}
