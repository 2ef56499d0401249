package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioClient posts messages to the Twilio Messages API
type TwilioClient struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioClient creates a Twilio REST client
func NewTwilioClient(accountSID, authToken string) *TwilioClient {
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    twilioBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether credentials are present
func (c *TwilioClient) Configured() bool {
	return c.accountSID != "" && c.authToken != ""
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SendMessage posts one outbound message. from and to must already carry any
// channel prefix (e.g. "whatsapp:+91...").
func (c *TwilioClient) SendMessage(ctx context.Context, from, to, body string) error {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var te twilioError
	if json.Unmarshal(payload, &te) == nil && te.Message != "" {
		return fmt.Errorf("twilio rejected message (status %d, code %d): %s", resp.StatusCode, te.Code, te.Message)
	}
	return fmt.Errorf("twilio rejected message: status %d", resp.StatusCode)
}

// WhatsAppSender delivers alert messages over Twilio WhatsApp
type WhatsAppSender struct {
	client      *TwilioClient
	from        string
	countryCode string
	log         *logger.Logger
}

// NewWhatsAppSender creates a WhatsApp sender. from is the Twilio WhatsApp
// number without the channel prefix.
func NewWhatsAppSender(client *TwilioClient, from, countryCode string, log *logger.Logger) *WhatsAppSender {
	return &WhatsAppSender{client: client, from: from, countryCode: countryCode, log: log}
}

func (s *WhatsAppSender) Channel() notification.Channel {
	return notification.ChannelWhatsApp
}

func (s *WhatsAppSender) Send(ctx context.Context, msg *notification.Message) error {
	if !s.client.Configured() || s.from == "" {
		return errors.NotificationError("whatsapp", fmt.Errorf("twilio whatsapp is not configured"))
	}

	to, err := NormalizeE164(msg.To, s.countryCode)
	if err != nil {
		return errors.NotificationError("whatsapp", err)
	}

	if err := s.client.SendMessage(ctx, "whatsapp:"+s.from, "whatsapp:"+to, msg.Body); err != nil {
		return errors.NotificationError("whatsapp", err)
	}

	s.log.WithFields(map[string]interface{}{"to": to}).Debug("whatsapp message sent")
	return nil
}

// SMSSender delivers alert messages over Twilio SMS
type SMSSender struct {
	client      *TwilioClient
	from        string
	countryCode string
	log         *logger.Logger
}

// NewSMSSender creates an SMS sender
func NewSMSSender(client *TwilioClient, from, countryCode string, log *logger.Logger) *SMSSender {
	return &SMSSender{client: client, from: from, countryCode: countryCode, log: log}
}

func (s *SMSSender) Channel() notification.Channel {
	return notification.ChannelSMS
}

func (s *SMSSender) Send(ctx context.Context, msg *notification.Message) error {
	if !s.client.Configured() || s.from == "" {
		return errors.NotificationError("sms", fmt.Errorf("twilio sms is not configured"))
	}

	to, err := NormalizeE164(msg.To, s.countryCode)
	if err != nil {
		return errors.NotificationError("sms", err)
	}

	// SMS drops the WhatsApp markdown emphasis markers.
	body := strings.ReplaceAll(msg.Body, "*", "")

	if err := s.client.SendMessage(ctx, s.from, to, body); err != nil {
		return errors.NotificationError("sms", err)
	}

	s.log.WithFields(map[string]interface{}{"to": to}).Debug("sms message sent")
	return nil
}
