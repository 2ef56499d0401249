package worker

import (
	"context"
	"fmt"

	"github.com/pashupehchan/herdwatch/internal/config"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/services"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the detection checks on their cron schedules
type Scheduler struct {
	geofence    *services.GeofenceService
	vaccination *services.VaccinationService
	vitals      *services.VitalsService
	cfg         config.SchedulerConfig
	logger      *logger.Logger

	cron *cron.Cron
}

// NewScheduler creates the check scheduler
func NewScheduler(
	geofence *services.GeofenceService,
	vaccination *services.VaccinationService,
	vitals *services.VitalsService,
	cfg config.SchedulerConfig,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		geofence:    geofence,
		vaccination: vaccination,
		vitals:      vitals,
		cfg:         cfg,
		logger:      log,
	}
}

// Start registers the checks and starts the cron loop. Checks run until Stop.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("Check scheduler disabled")
		return nil
	}

	s.cron = cron.New()

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (*services.CheckSummary, error)
	}{
		{"geofence", s.cfg.GeofenceSpec, func(ctx context.Context) (*services.CheckSummary, error) {
			return s.geofence.RunCheck(ctx, nil)
		}},
		{"vaccination", s.cfg.VaccinationSpec, s.vaccination.RunCheck},
		{"vitals", s.cfg.VitalsSpec, s.vitals.RunCheck},
	}

	for _, j := range jobs {
		j := j
		_, err := s.cron.AddFunc(j.spec, func() {
			summary, err := j.run(context.Background())
			if err != nil {
				s.logger.WithFields(map[string]interface{}{
					"check": j.name,
				}).ErrorWithErr(err, "Scheduled check failed")
				return
			}
			s.logger.WithFields(map[string]interface{}{
				"check":      j.name,
				"evaluated":  summary.Evaluated,
				"created":    summary.Created,
				"refreshed":  summary.Refreshed,
				"suppressed": summary.Suppressed,
				"resolved":   summary.Resolved,
			}).Debug("Scheduled check finished")
		})
		if err != nil {
			return fmt.Errorf("invalid %s schedule %q: %w", j.name, j.spec, err)
		}
		s.logger.WithFields(map[string]interface{}{
			"check":    j.name,
			"schedule": j.spec,
		}).Info("Check scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running checks to finish
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Check scheduler stopped")
}
