package notification

import "time"

// Channel represents a notification delivery channel
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
)

// AllChannels returns every delivery channel
func AllChannels() []Channel {
	return []Channel{ChannelWhatsApp, ChannelSMS, ChannelEmail}
}

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelWhatsApp, ChannelSMS, ChannelEmail:
		return true
	default:
		return false
	}
}

// DeliveryStatus represents the status of a notification delivery
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// Preference represents a caretaker's per-channel notification preferences.
// A caretaker without a stored row gets every channel enabled.
type Preference struct {
	CaretakerID     int64     `json:"caretaker_id"`
	WhatsAppEnabled bool      `json:"whatsapp_enabled"`
	SMSEnabled      bool      `json:"sms_enabled"`
	EmailEnabled    bool      `json:"email_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultPreference returns the all-enabled preference for a caretaker
func DefaultPreference(caretakerID int64) *Preference {
	return &Preference{
		CaretakerID:     caretakerID,
		WhatsAppEnabled: true,
		SMSEnabled:      true,
		EmailEnabled:    true,
	}
}

// Enabled reports whether the given channel is enabled in the preference
func (p *Preference) Enabled(c Channel) bool {
	switch c {
	case ChannelWhatsApp:
		return p.WhatsAppEnabled
	case ChannelSMS:
		return p.SMSEnabled
	case ChannelEmail:
		return p.EmailEnabled
	default:
		return false
	}
}

// Log represents one delivery attempt for one alert, caretaker, and channel
type Log struct {
	ID           string         `json:"id"`
	AlertID      int64          `json:"alert_id"`
	CaretakerID  int64          `json:"caretaker_id"`
	Channel      Channel        `json:"channel"`
	Status       DeliveryStatus `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Message is the rendered, localized content handed to a channel sender
type Message struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
	Language string
}
