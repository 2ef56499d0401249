package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pashupehchan/herdwatch/internal/api/dto"
	"github.com/pashupehchan/herdwatch/internal/domain/vaccination"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/utils"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/services"
)

// VaccinationHandler manages vaccination schedules
type VaccinationHandler struct {
	service   *services.VaccinationService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewVaccinationHandler(service *services.VaccinationService, log *logger.Logger, val *validator.Validator) *VaccinationHandler {
	return &VaccinationHandler{service: service, logger: log, validator: val}
}

func toVaccinationDTO(e *vaccination.Event) dto.VaccinationEventDTO {
	return dto.VaccinationEventDTO{
		ID:             e.ID,
		AnimalID:       e.AnimalID,
		VaccineName:    e.VaccineName,
		DueDate:        e.DueDate,
		Status:         e.Status,
		AdministeredAt: e.AdministeredAt,
	}
}

// Schedule creates a new scheduled vaccination event
// @Summary Schedule vaccination
// @Description Schedule a vaccination for an animal
// @Tags Vaccinations
// @Accept json
// @Produce json
// @Param request body dto.ScheduleVaccinationRequest true "Vaccination details"
// @Success 201 {object} dto.VaccinationEventDTO "Vaccination scheduled"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 404 {object} utils.ErrorResponse "Animal not found"
// @Router /vaccinations [post]
func (h *VaccinationHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleVaccinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	event, err := h.service.Schedule(r.Context(), req.AnimalID, req.VaccineName, req.DueDate.UTC())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to schedule vaccination", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, toVaccinationDTO(event))
}

// ListByAnimal returns an animal's vaccination events
// @Summary List vaccinations
// @Description Get vaccination events for an animal, optionally filtered by status
// @Tags Vaccinations
// @Produce json
// @Param animalID path int true "Animal ID"
// @Param status query string false "Filter by status (scheduled, missed, administered)"
// @Success 200 {array} dto.VaccinationEventDTO "Vaccination events"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /animals/{animalID}/vaccinations [get]
func (h *VaccinationHandler) ListByAnimal(w http.ResponseWriter, r *http.Request) {
	animalID, _ := strconv.ParseInt(chi.URLParam(r, "animalID"), 10, 64)

	events, err := h.service.ListByAnimal(r.Context(), animalID, r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to list vaccinations", err))
		return
	}

	dtos := make([]dto.VaccinationEventDTO, len(events))
	for i, e := range events {
		dtos[i] = toVaccinationDTO(e)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// MarkAdministered records that a vaccination was given
// @Summary Mark vaccination administered
// @Description Record a given vaccination and auto-resolve its open alerts
// @Tags Vaccinations
// @Produce json
// @Param id path int true "Vaccination event ID"
// @Success 200 {object} dto.VaccinationEventDTO "Updated event"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Router /vaccinations/{id}/administer [post]
func (h *VaccinationHandler) MarkAdministered(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	event, err := h.service.MarkAdministered(r.Context(), id)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to mark vaccination administered", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toVaccinationDTO(event))
}
