package dto

import "time"

// UpdatePreferenceRequest represents a caretaker preference update.
// Every field is required so a partial body cannot silently disable channels.
type UpdatePreferenceRequest struct {
	WhatsAppEnabled *bool `json:"whatsapp_enabled" validate:"required"`
	SMSEnabled      *bool `json:"sms_enabled" validate:"required"`
	EmailEnabled    *bool `json:"email_enabled" validate:"required"`
}

// PreferenceDTO represents a caretaker's channel preferences
type PreferenceDTO struct {
	CaretakerID     int64 `json:"caretaker_id"`
	WhatsAppEnabled bool  `json:"whatsapp_enabled"`
	SMSEnabled      bool  `json:"sms_enabled"`
	EmailEnabled    bool  `json:"email_enabled"`
}

// NotificationLogDTO represents one delivery attempt in API responses
type NotificationLogDTO struct {
	ID           string     `json:"id"`
	AlertID      int64      `json:"alert_id"`
	CaretakerID  int64      `json:"caretaker_id"`
	Channel      string     `json:"channel"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
