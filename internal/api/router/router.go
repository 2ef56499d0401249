package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pashupehchan/herdwatch/internal/api/handlers"
	"github.com/pashupehchan/herdwatch/internal/api/middleware"
	"github.com/pashupehchan/herdwatch/internal/config"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Alert        *handlers.AlertHandler
	Check        *handlers.CheckHandler
	Telemetry    *handlers.TelemetryHandler
	Vaccination  *handlers.VaccinationHandler
	Notification *handlers.NotificationHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.DashboardURL))
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Prometheus metrics
		r.Handle("/metrics", promhttp.Handler())
	})

	// Telemetry ingestion, rate limited per device
	r.Group(func(r chi.Router) {
		r.Use(middleware.DeviceRateLimit(10, 30))

		r.Route("/api/v1/telemetry", func(r chi.Router) {
			r.Post("/waypoints", h.Telemetry.IngestWaypoint)
			r.Post("/vitals", h.Telemetry.IngestVitals)
			r.Post("/heartbeat", h.Telemetry.Heartbeat)
		})
	})

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200

		// Alerts
		r.Route("/api/v1/alerts", func(r chi.Router) {
			r.Get("/", h.Alert.List)
			r.Get("/summary", h.Alert.GetSummary)
			r.Post("/resolve", h.Alert.BulkResolve)
			r.Get("/{id}", h.Alert.Get)
			r.Post("/{id}/resolve", h.Alert.Resolve)
			r.Get("/{id}/notifications", h.Alert.Notifications)
		})

		// On-demand detector runs
		r.Route("/api/v1/checks", func(r chi.Router) {
			r.Post("/geofence", h.Check.RunGeofence)
			r.Post("/vaccinations", h.Check.RunVaccinations)
			r.Post("/vitals", h.Check.RunVitals)
		})

		// Escape reports from the vision system
		r.Post("/api/v1/escapes", h.Check.ReportEscape)

		// Vaccination schedules
		r.Route("/api/v1/vaccinations", func(r chi.Router) {
			r.Post("/", h.Vaccination.Schedule)
			r.Post("/{id}/administer", h.Vaccination.MarkAdministered)
		})
		r.Get("/api/v1/animals/{animalID}/vaccinations", h.Vaccination.ListByAnimal)

		// Caretaker notification preferences
		r.Route("/api/v1/caretakers/{caretakerID}/preferences", func(r chi.Router) {
			r.Get("/", h.Notification.GetPreference)
			r.Put("/", h.Notification.UpdatePreference)
		})

		// Device connectivity
		r.Get("/api/v1/devices/status", h.Telemetry.DeviceStatuses)
	})

	return r
}
