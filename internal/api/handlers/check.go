package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pashupehchan/herdwatch/internal/api/dto"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/utils"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/services"
)

// CheckHandler exposes on-demand runs of the detector checks
type CheckHandler struct {
	geofence    *services.GeofenceService
	vaccination *services.VaccinationService
	vitals      *services.VitalsService
	logger      *logger.Logger
	validator   *validator.Validator
}

func NewCheckHandler(
	geofence *services.GeofenceService,
	vaccination *services.VaccinationService,
	vitals *services.VitalsService,
	log *logger.Logger,
	val *validator.Validator,
) *CheckHandler {
	return &CheckHandler{
		geofence:    geofence,
		vaccination: vaccination,
		vitals:      vitals,
		logger:      log,
		validator:   val,
	}
}

// RunGeofence runs the boundary check now
// @Summary Run geofence check
// @Description Evaluate every animal against its farm boundary immediately
// @Tags Checks
// @Produce json
// @Param farm_id query int false "Limit the check to one farm"
// @Success 200 {object} services.CheckSummary "Check summary"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /checks/geofence [post]
func (h *CheckHandler) RunGeofence(w http.ResponseWriter, r *http.Request) {
	var farmIDs []int64
	if v := r.URL.Query().Get("farm_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("farm_id must be an integer"))
			return
		}
		farmIDs = append(farmIDs, id)
	}

	summary, err := h.geofence.RunCheck(r.Context(), farmIDs)
	if err != nil {
		utils.WriteError(w, errors.Internal("Geofence check failed", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}

// RunVaccinations runs the vaccination check now
// @Summary Run vaccination check
// @Description Transition overdue vaccinations to missed and raise alerts
// @Tags Checks
// @Produce json
// @Success 200 {object} services.CheckSummary "Check summary"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /checks/vaccinations [post]
func (h *CheckHandler) RunVaccinations(w http.ResponseWriter, r *http.Request) {
	summary, err := h.vaccination.RunCheck(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Vaccination check failed", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}

// RunVitals runs the vitals sweep now
// @Summary Run vitals check
// @Description Apply the sustained-pattern health rule to recent readings
// @Tags Checks
// @Produce json
// @Success 200 {object} services.CheckSummary "Check summary"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /checks/vitals [post]
func (h *CheckHandler) RunVitals(w http.ResponseWriter, r *http.Request) {
	summary, err := h.vitals.RunCheck(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Vitals check failed", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}

// ReportEscape records an escape sighting from the vision system
// @Summary Report escaped animal
// @Description Raise a geofence alert for an animal spotted outside the boundary
// @Tags Checks
// @Accept json
// @Produce json
// @Param request body dto.EscapeReportRequest true "Escape report"
// @Success 200 {object} dto.EscapeReportResponse "Existing alert within cooldown"
// @Success 201 {object} dto.EscapeReportResponse "New alert created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Animal not found"
// @Router /escapes [post]
func (h *CheckHandler) ReportEscape(w http.ResponseWriter, r *http.Request) {
	var req dto.EscapeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	a, outcome, err := h.geofence.CreateEscapeAlert(r.Context(), req.AnimalID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to report escape", err))
		}
		return
	}

	status := http.StatusCreated
	if outcome == services.OutcomeSuppress {
		status = http.StatusOK
	}

	utils.WriteSuccess(w, status, dto.EscapeReportResponse{
		Alert:      toAlertDTO(a),
		Suppressed: outcome == services.OutcomeSuppress,
	})
}
