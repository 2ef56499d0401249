package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pashupehchan/herdwatch/internal/api/handlers"
	"github.com/pashupehchan/herdwatch/internal/api/router"
	"github.com/pashupehchan/herdwatch/internal/channels"
	"github.com/pashupehchan/herdwatch/internal/config"
	"github.com/pashupehchan/herdwatch/internal/detector"
	"github.com/pashupehchan/herdwatch/internal/devicestate"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/repository/postgres"
	"github.com/pashupehchan/herdwatch/internal/services"
	"github.com/pashupehchan/herdwatch/internal/worker"
	"github.com/pashupehchan/herdwatch/migrations"
)

// @title HerdWatch API
// @version 1.0
// @description Livestock monitoring and alerting platform for the Pashu Pehchan herd network.

// @contact.name HerdWatch Support
// @contact.url https://github.com/pashupehchan/herdwatch

// @license.name MIT

// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	// Database
	db, err := postgres.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database ready")

	// Repositories
	herdRepo := postgres.NewHerdRepository(db)
	alertRepo := postgres.NewAlertRepository(db)
	telemetryRepo := postgres.NewTelemetryRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	vaccinationRepo := postgres.NewVaccinationRepository(db)

	// Notification channels
	bundle, err := channels.LoadBundle(cfg.Notify.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to load message bundle: %w", err)
	}

	var senders []notification.Sender
	if cfg.Notify.TwilioAccountSID != "" {
		twilio := channels.NewTwilioClient(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken)
		if cfg.Notify.TwilioWhatsAppFrom != "" {
			senders = append(senders, channels.NewWhatsAppSender(twilio, cfg.Notify.TwilioWhatsAppFrom, cfg.Notify.DefaultCountryCode, log))
		}
		if cfg.Notify.TwilioSMSFrom != "" {
			senders = append(senders, channels.NewSMSSender(twilio, cfg.Notify.TwilioSMSFrom, cfg.Notify.DefaultCountryCode, log))
		}
	}
	if cfg.Notify.SMTPHost != "" {
		senders = append(senders, channels.NewEmailSender(
			cfg.Notify.SMTPHost, cfg.Notify.SMTPPort,
			cfg.Notify.SMTPUser, cfg.Notify.SMTPPassword, cfg.Notify.SMTPFrom, log))
	}
	if len(senders) == 0 {
		log.Warn("No notification channels configured, alerts will not be delivered")
	}

	insights := services.NewInsightService(cfg.Insights.OpenAIAPIKey, log)

	notificationService := services.NewNotificationService(
		notificationRepo, herdRepo, senders, bundle, insights, cfg.Notify.SendTimeout, log)

	// Alert pipeline
	alertService := services.NewAlertService(alertRepo, notificationService, log)
	dedup := services.NewDeduplicator(alertRepo)

	// Detectors
	geofenceService := services.NewGeofenceService(
		herdRepo, telemetryRepo, alertRepo, alertService, dedup,
		detector.NewGeofenceDetector(cfg.Detector.DefaultBoundaryRadiusM),
		cfg.Detector.EscapeCooldown, log)

	vaccinationService := services.NewVaccinationService(
		vaccinationRepo, herdRepo, alertRepo, alertService, dedup, log)

	vitalsService := services.NewVitalsService(
		telemetryRepo, herdRepo, alertService, dedup,
		detector.VitalsThresholds{
			FeverC:             cfg.Detector.FeverThresholdC,
			CriticalFeverC:     cfg.Detector.CriticalFeverC,
			StressHeartRateBPM: cfg.Detector.StressHeartRateBPM,
			SustainedRatio:     cfg.Detector.SustainedRatio,
			MinReadings:        cfg.Detector.VitalsMinReadings,
		},
		cfg.Detector.VitalsWindow, cfg.Detector.VitalsMaxReadings,
		cfg.Detector.HealthDedupWindow, log)

	// Telemetry ingestion
	tracker := devicestate.NewTracker(cfg.Detector.DeviceTimeout)
	telemetryService := services.NewTelemetryService(telemetryRepo, herdRepo, tracker, vitalsService, log)

	// HTTP layer
	val := validator.New()
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Alert:        handlers.NewAlertHandler(alertService, notificationService, log, val),
		Check:        handlers.NewCheckHandler(geofenceService, vaccinationService, vitalsService, log, val),
		Telemetry:    handlers.NewTelemetryHandler(telemetryService, log, val),
		Vaccination:  handlers.NewVaccinationHandler(vaccinationService, log, val),
		Notification: handlers.NewNotificationHandler(notificationService, log, val),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Background check scheduler
	scheduler := worker.NewScheduler(geofenceService, vaccinationService, vitalsService, cfg.Scheduler, log)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	scheduler.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Let in-flight notification deliveries finish
	notificationService.Wait()

	log.Info("Server stopped")
	return nil
}
