package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashupehchan/herdwatch/internal/api/dto"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/utils"
	"github.com/pashupehchan/herdwatch/internal/pkg/validator"
	"github.com/pashupehchan/herdwatch/internal/services"
)

// NotificationHandler manages caretaker notification preferences
type NotificationHandler struct {
	service   *services.NotificationService
	logger    *logger.Logger
	validator *validator.Validator
}

func NewNotificationHandler(service *services.NotificationService, log *logger.Logger, val *validator.Validator) *NotificationHandler {
	return &NotificationHandler{service: service, logger: log, validator: val}
}

// GetPreference returns a caretaker's channel preferences
// @Summary Get notification preferences
// @Description Get a caretaker's channel preferences; absent preferences default to all channels enabled
// @Tags Notifications
// @Produce json
// @Param caretakerID path int true "Caretaker ID"
// @Success 200 {object} dto.PreferenceDTO "Preferences"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /caretakers/{caretakerID}/preferences [get]
func (h *NotificationHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	caretakerID, _ := strconv.ParseInt(chi.URLParam(r, "caretakerID"), 10, 64)

	pref, err := h.service.GetPreference(r.Context(), caretakerID)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to get preferences", err))
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.PreferenceDTO{
		CaretakerID:     pref.CaretakerID,
		WhatsAppEnabled: pref.WhatsAppEnabled,
		SMSEnabled:      pref.SMSEnabled,
		EmailEnabled:    pref.EmailEnabled,
	})
}

// UpdatePreference stores a caretaker's channel preferences
// @Summary Update notification preferences
// @Description Set which channels a caretaker receives alerts on
// @Tags Notifications
// @Accept json
// @Produce json
// @Param caretakerID path int true "Caretaker ID"
// @Param request body dto.UpdatePreferenceRequest true "Preference settings"
// @Success 200 {object} utils.SuccessResponse "Preferences updated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Router /caretakers/{caretakerID}/preferences [put]
func (h *NotificationHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	caretakerID, _ := strconv.ParseInt(chi.URLParam(r, "caretakerID"), 10, 64)

	var req dto.UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}
	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	pref := &notification.Preference{
		CaretakerID:     caretakerID,
		WhatsAppEnabled: *req.WhatsAppEnabled,
		SMSEnabled:      *req.SMSEnabled,
		EmailEnabled:    *req.EmailEnabled,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := h.service.UpdatePreference(r.Context(), pref); err != nil {
		utils.WriteError(w, errors.Internal("Failed to update preferences", err))
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Preferences updated successfully", nil)
}
