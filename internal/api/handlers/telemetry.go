package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pashupehchan/herdwatch/internal/api/dto"
	"github.com/pashupehchan/herdwatch/internal/domain/telemetry"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/utils"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/services"
)

// TelemetryHandler ingests device readings and reports device connectivity
type TelemetryHandler struct {
	service   *services.TelemetryService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewTelemetryHandler(service *services.TelemetryService, log *logger.Logger, val *validator.Validator) *TelemetryHandler {
	return &TelemetryHandler{service: service, logger: log, validator: val}
}

// IngestWaypoint stores a GPS fix for an animal
// @Summary Ingest waypoint
// @Description Store a GPS fix and update the animal's last known position
// @Tags Telemetry
// @Accept json
// @Produce json
// @Param request body dto.WaypointRequest true "GPS fix"
// @Success 201 {object} map[string]int64 "Waypoint stored"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 404 {object} utils.ErrorResponse "Animal not found"
// @Router /telemetry/waypoints [post]
func (h *TelemetryHandler) IngestWaypoint(w http.ResponseWriter, r *http.Request) {
	var req dto.WaypointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	wp := &telemetry.Waypoint{
		AnimalID:  req.AnimalID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.RecordedAt != nil {
		wp.RecordedAt = req.RecordedAt.UTC()
	}

	id, err := h.service.IngestWaypoint(r.Context(), wp)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to store waypoint", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// IngestVitals stores a batch of vitals readings
// @Summary Ingest vitals
// @Description Store a batch of vitals readings and run the health check inline
// @Tags Telemetry
// @Accept json
// @Produce json
// @Param request body dto.IngestVitalsRequest true "Vitals batch"
// @Success 201 {object} dto.IngestVitalsResponse "Readings stored"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 404 {object} utils.ErrorResponse "Animal not found"
// @Router /telemetry/vitals [post]
func (h *TelemetryHandler) IngestVitals(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestVitalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	readings := make([]*telemetry.VitalsReading, len(req.Readings))
	for i, rd := range req.Readings {
		reading := &telemetry.VitalsReading{
			TemperatureC: rd.TemperatureC,
			HeartRateBPM: rd.HeartRateBPM,
		}
		if rd.RecordedAt != nil {
			reading.RecordedAt = rd.RecordedAt.UTC()
		}
		readings[i] = reading
	}

	outcome, err := h.service.IngestVitals(r.Context(), req.AnimalID, readings)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to store vitals", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.IngestVitalsResponse{
		Stored:       len(readings),
		AlertOutcome: string(outcome),
	})
}

// Heartbeat records a bare device heartbeat
// @Summary Device heartbeat
// @Description Record that a collar device is alive
// @Tags Telemetry
// @Accept json
// @Produce json
// @Param request body dto.HeartbeatRequest true "Heartbeat"
// @Success 200 {object} map[string]interface{} "Heartbeat recorded"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Device not registered to any animal"
// @Router /telemetry/heartbeat [post]
func (h *TelemetryHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req dto.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	animal, err := h.service.Heartbeat(r.Context(), req.DeviceID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to record heartbeat", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"device_id":   req.DeviceID,
		"animal_id":   animal.ID,
		"received_at": time.Now().UTC(),
	})
}

// DeviceStatuses returns connectivity for every device seen since startup
// @Summary List device statuses
// @Description Get the connectivity of every device seen since startup
// @Tags Telemetry
// @Produce json
// @Success 200 {array} dto.DeviceStatusDTO "Device statuses"
// @Router /devices/status [get]
func (h *TelemetryHandler) DeviceStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.DeviceStatuses()

	dtos := make([]dto.DeviceStatusDTO, len(statuses))
	for i, s := range statuses {
		dtos[i] = dto.DeviceStatusDTO{
			DeviceID:      s.DeviceID,
			Connected:     s.Connected,
			LastHeartbeat: s.LastHeartbeat,
		}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}
