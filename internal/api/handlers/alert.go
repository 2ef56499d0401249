package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashupehchan/herdwatch/internal/api/dto"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/utils"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/services"
)

type AlertHandler struct {
	service       alert.Service
	notifications *services.NotificationService
	logger        *logger.Logger
	validator     *validator.Validator
}

func NewAlertHandler(service alert.Service, notifications *services.NotificationService, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{service: service, notifications: notifications, logger: log, validator: val}
}

func toAlertDTO(a *alert.Alert) dto.AlertDTO {
	return dto.AlertDTO{
		ID:              a.ID,
		AnimalID:        a.AnimalID,
		FarmID:          a.FarmID,
		Category:        a.Category,
		Severity:        a.Severity,
		Message:         a.Message,
		IsOpen:          a.IsOpen,
		CreatedAt:       a.CreatedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
		ResolutionNotes: a.ResolutionNotes,
	}
}

// List returns alerts with pagination and filtering
// @Summary List alerts
// @Description Get a paginated list of alerts with optional filtering
// @Tags Alerts
// @Produce json
// @Param animal_id query int false "Filter by animal"
// @Param farm_id query int false "Filter by farm"
// @Param category query string false "Filter by category"
// @Param severity query string false "Filter by severity"
// @Param is_open query bool false "Filter by open/resolved state"
// @Param search query string false "Search in alert messages"
// @Param from query string false "Created at or after (RFC 3339)"
// @Param to query string false "Created before (RFC 3339)"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.AlertDTO} "List of alerts"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)
	q := r.URL.Query()

	filter := alert.Filter{
		Category: q.Get("category"),
		Severity: q.Get("severity"),
		Search:   q.Get("search"),
	}
	filter.AnimalID, _ = strconv.ParseInt(q.Get("animal_id"), 10, 64)
	filter.FarmID, _ = strconv.ParseInt(q.Get("farm_id"), 10, 64)
	if v := q.Get("is_open"); v != "" {
		isOpen, err := strconv.ParseBool(v)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("is_open must be true or false"))
			return
		}
		filter.IsOpen = &isOpen
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("from must be RFC 3339"))
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("to must be RFC 3339"))
			return
		}
		filter.To = &t
	}

	alerts, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to list alerts", err))
		return
	}

	dtos := make([]dto.AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toAlertDTO(a)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single alert by ID
// @Summary Get alert by ID
// @Description Get detailed information about a specific alert
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.AlertDTO "Alert details"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to get alert", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, toAlertDTO(a))
}

// Resolve closes an alert manually
// @Summary Resolve alert
// @Description Close an open alert, recording who resolved it and why
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param request body dto.ResolveAlertRequest true "Resolution details"
// @Success 200 {object} utils.SuccessResponse "Alert resolved successfully"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 404 {object} utils.ErrorResponse "Alert not found or already resolved"
// @Router /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.ResolveAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if err := h.service.Resolve(r.Context(), id, req.ResolvedBy, req.Notes); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to resolve alert", err))
		}
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert resolved successfully", nil)
}

// BulkResolve closes multiple alerts in one call
// @Summary Bulk resolve alerts
// @Description Close multiple open alerts in one call
// @Tags Alerts
// @Accept json
// @Produce json
// @Param request body dto.BulkResolveRequest true "Resolution details"
// @Success 200 {object} map[string]int64 "Number of alerts resolved"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Router /alerts/resolve [post]
func (h *AlertHandler) BulkResolve(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	resolved, err := h.service.BulkResolve(r.Context(), req.IDs, req.ResolvedBy, req.Notes)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			utils.WriteError(w, appErr)
		} else {
			utils.WriteError(w, errors.Internal("Failed to resolve alerts", err))
		}
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]int64{"resolved": resolved})
}

// GetSummary returns open alert counts by severity
// @Summary Get alert summary
// @Description Get open alert counts by severity
// @Tags Alerts
// @Produce json
// @Success 200 {object} dto.AlertSummaryDTO "Alert summary"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /alerts/summary [get]
func (h *AlertHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Summary(r.Context())
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get summary", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.AlertSummaryDTO{
		Open:   counts[alert.SeverityLow] + counts[alert.SeverityMedium] + counts[alert.SeverityHigh],
		High:   counts[alert.SeverityHigh],
		Medium: counts[alert.SeverityMedium],
		Low:    counts[alert.SeverityLow],
	})
}

// Notifications returns the delivery log for an alert
// @Summary Get alert notifications
// @Description Get the notification delivery log for an alert
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {array} dto.NotificationLogDTO "Delivery attempts"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /alerts/{id}/notifications [get]
func (h *AlertHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	logs, err := h.notifications.History(r.Context(), id)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get notification history", err))
		return
	}

	dtos := make([]dto.NotificationLogDTO, len(logs))
	for i, l := range logs {
		dtos[i] = dto.NotificationLogDTO{
			ID:           l.ID,
			AlertID:      l.AlertID,
			CaretakerID:  l.CaretakerID,
			Channel:      string(l.Channel),
			Status:       string(l.Status),
			ErrorMessage: l.ErrorMessage,
			SentAt:       l.SentAt,
			CreatedAt:    l.CreatedAt,
		}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}
