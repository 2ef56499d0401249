package services

import (
	"context"
	"time"

	"github.com/pashupehchan/herdwatch/internal/detector"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/vaccination"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

const vaccinationAdministeredNote = "vaccination administered"

// VaccinationService transitions overdue vaccinations to missed and raises
// alerts for them
type VaccinationService struct {
	vaccinationRepo vaccination.Repository
	herdRepo        herd.Repository
	alertRepo       alert.Repository
	alerts          AlertCreator
	dedup           *Deduplicator
	logger          *logger.Logger
}

// NewVaccinationService creates a new vaccination service
func NewVaccinationService(
	vaccinationRepo vaccination.Repository,
	herdRepo herd.Repository,
	alertRepo alert.Repository,
	alerts AlertCreator,
	dedup *Deduplicator,
	log *logger.Logger,
) *VaccinationService {
	return &VaccinationService{
		vaccinationRepo: vaccinationRepo,
		herdRepo:        herdRepo,
		alertRepo:       alertRepo,
		alerts:          alerts,
		dedup:           dedup,
		logger:          log,
	}
}

// RunCheck marks overdue scheduled vaccinations missed, then ensures each
// missed vaccination has exactly one open alert. Re-runs are idempotent: the
// dedup match on vaccine name suppresses already-alerted events.
func (s *VaccinationService) RunCheck(ctx context.Context) (*CheckSummary, error) {
	start := time.Now()
	now := time.Now().UTC()
	summary := &CheckSummary{}

	marked, err := s.vaccinationRepo.MarkOverdueMissed(ctx, now)
	if err != nil {
		metrics.RecordCheckRun("vaccination", "error", time.Since(start))
		return nil, errors.DetectorError("vaccination", err)
	}
	if marked > 0 {
		s.logger.WithFields(map[string]interface{}{
			"marked_missed": marked,
		}).Info("Overdue vaccinations transitioned to missed")
	}

	events, err := s.vaccinationRepo.ListMissed(ctx)
	if err != nil {
		metrics.RecordCheckRun("vaccination", "error", time.Since(start))
		return nil, errors.DetectorError("vaccination", err)
	}

	for _, event := range events {
		if err := s.checkEvent(ctx, event, now, summary); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"event_id":  event.ID,
				"animal_id": event.AnimalID,
			}).ErrorWithErr(err, "Vaccination check failed for event")
			summary.Skipped++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"evaluated":  summary.Evaluated,
		"created":    summary.Created,
		"suppressed": summary.Suppressed,
		"skipped":    summary.Skipped,
	}).Info("Vaccination check finished")
	metrics.RecordCheckRun("vaccination", "ok", time.Since(start))

	return summary, nil
}

func (s *VaccinationService) checkEvent(ctx context.Context, event *vaccination.Event, now time.Time, summary *CheckSummary) error {
	summary.Evaluated++

	decision, err := s.dedup.Evaluate(ctx, DedupKey{
		AnimalID: event.AnimalID,
		Category: alert.CategoryVaccination,
		Match:    MatchText(event.VaccineName),
	})
	if err != nil {
		return err
	}

	if decision.Outcome != OutcomeCreate {
		summary.Suppressed++
		metrics.RecordAlertOutcome(alert.CategoryVaccination, "suppressed")
		return nil
	}

	animal, err := s.herdRepo.GetAnimal(ctx, event.AnimalID)
	if err != nil {
		return err
	}

	_, err = s.alerts.Create(ctx, &alert.Alert{
		AnimalID: event.AnimalID,
		FarmID:   animal.FarmID,
		Category: alert.CategoryVaccination,
		Severity: detector.ClassifyOverdue(event.DaysPastDue(now)),
		Message:  detector.VaccinationMessage(event.VaccineName, event.DueDate),
	})
	if err != nil {
		return err
	}

	summary.Created++
	return nil
}

// MarkAdministered records a given vaccination and auto-resolves any open
// alerts for that vaccine. Alert resolution failing is logged, never surfaced:
// the administered fact must not be lost to a notification-side problem.
func (s *VaccinationService) MarkAdministered(ctx context.Context, eventID int64) (*vaccination.Event, error) {
	event, err := s.vaccinationRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.vaccinationRepo.MarkAdministered(ctx, eventID, now); err != nil {
		return nil, err
	}
	event.Status = vaccination.StatusAdministered
	event.AdministeredAt = &now

	if err := s.resolveVaccineAlerts(ctx, event); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"event_id":  eventID,
			"animal_id": event.AnimalID,
		}).ErrorWithErr(err, "Failed to auto-resolve vaccination alerts")
	}

	return event, nil
}

func (s *VaccinationService) resolveVaccineAlerts(ctx context.Context, event *vaccination.Event) error {
	open, err := s.alertRepo.FindOpen(ctx, event.AnimalID, alert.CategoryVaccination, nil)
	if err != nil {
		return err
	}

	match := MatchText(event.VaccineName)
	var ids []int64
	for _, a := range open {
		if match(a.Message) {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	resolved, err := s.alertRepo.BulkResolve(ctx, ids, alert.ResolvedBySystem, vaccinationAdministeredNote, time.Now().UTC())
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"event_id":  event.ID,
		"animal_id": event.AnimalID,
		"resolved":  resolved,
	}).Info("Vaccination alerts auto-resolved after administration")
	metrics.RecordAlertOutcome(alert.CategoryVaccination, "auto_resolved")

	return nil
}

// Schedule creates a new scheduled vaccination event
func (s *VaccinationService) Schedule(ctx context.Context, animalID int64, vaccineName string, dueDate time.Time) (*vaccination.Event, error) {
	if _, err := s.herdRepo.GetAnimal(ctx, animalID); err != nil {
		return nil, err
	}
	if vaccineName == "" {
		return nil, errors.BadRequest("vaccine_name is required")
	}

	event := &vaccination.Event{
		AnimalID:    animalID,
		VaccineName: vaccineName,
		DueDate:     dueDate,
		Status:      vaccination.StatusScheduled,
	}
	if _, err := s.vaccinationRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// ListByAnimal retrieves an animal's vaccination events
func (s *VaccinationService) ListByAnimal(ctx context.Context, animalID int64, status string) ([]*vaccination.Event, error) {
	return s.vaccinationRepo.ListByAnimal(ctx, animalID, status)
}
