package services

import (
	"context"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

// AlertCreator persists new alerts and triggers their notification fan-out.
// Detector services raise alerts through this interface only.
type AlertCreator interface {
	Create(ctx context.Context, a *alert.Alert) (int64, error)
}

// AlertService implements alert.Service and AlertCreator
type AlertService struct {
	repo       alert.Repository
	dispatcher notification.Dispatcher
	logger     *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(repo alert.Repository, dispatcher notification.Dispatcher, log *logger.Logger) *AlertService {
	return &AlertService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Create persists a new alert and hands it to the dispatcher. This is the
// only dispatch call site: refreshed and auto-resolved alerts never notify.
func (s *AlertService) Create(ctx context.Context, a *alert.Alert) (int64, error) {
	if !alert.ValidCategory(a.Category) {
		return 0, errors.BadRequest("unknown alert category: " + a.Category)
	}
	if !alert.ValidSeverity(a.Severity) {
		return 0, errors.BadRequest("unknown alert severity: " + a.Severity)
	}

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create alert")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":  id,
		"animal_id": a.AnimalID,
		"category":  a.Category,
		"severity":  a.Severity,
	}).Info("Alert created")
	metrics.RecordAlertOutcome(a.Category, "created")

	s.dispatcher.Dispatch(a)

	return id, nil
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves alerts with filters and pagination
func (s *AlertService) List(ctx context.Context, filter alert.Filter, limit, offset int) ([]*alert.Alert, int64, error) {
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}

// Resolve closes an alert manually
func (s *AlertService) Resolve(ctx context.Context, id int64, resolvedBy, notes string) error {
	if resolvedBy == "" {
		return errors.BadRequest("resolved_by is required")
	}

	err := s.repo.Resolve(ctx, id, resolvedBy, notes, time.Now().UTC())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to resolve alert")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":    id,
		"resolved_by": resolvedBy,
	}).Info("Alert resolved")

	return nil
}

// BulkResolve closes multiple alerts, returning how many were still open
func (s *AlertService) BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string) (int64, error) {
	if resolvedBy == "" {
		return 0, errors.BadRequest("resolved_by is required")
	}
	if len(ids) == 0 {
		return 0, errors.BadRequest("no alert ids given")
	}

	resolved, err := s.repo.BulkResolve(ctx, ids, resolvedBy, notes, time.Now().UTC())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to bulk resolve alerts")
		return 0, err
	}

	s.logger.WithFields(map[string]interface{}{
		"requested":   len(ids),
		"resolved":    resolved,
		"resolved_by": resolvedBy,
	}).Info("Alerts bulk resolved")

	return resolved, nil
}

// Summary counts open alerts by severity and refreshes the gauge
func (s *AlertService) Summary(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountBySeverity(ctx)
	if err != nil {
		return nil, err
	}

	for _, severity := range []string{alert.SeverityLow, alert.SeverityMedium, alert.SeverityHigh} {
		metrics.SetOpenAlerts(severity, float64(counts[severity]))
	}

	return counts, nil
}
