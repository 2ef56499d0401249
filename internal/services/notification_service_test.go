package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pashupehchan/herdwatch/internal/channels"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/testutil"
)

type notificationFixture struct {
	repo     *testutil.MockNotificationRepository
	herdRepo *testutil.MockHerdRepository
	whatsapp *testutil.MockSender
	sms      *testutil.MockSender
	email    *testutil.MockSender
	service  *NotificationService
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	repo := testutil.NewMockNotificationRepository()
	herdRepo := testutil.NewMockHerdRepository()
	whatsapp := testutil.NewMockSender(notification.ChannelWhatsApp)
	sms := testutil.NewMockSender(notification.ChannelSMS)
	email := testutil.NewMockSender(notification.ChannelEmail)
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	bundle, err := channels.LoadBundle("en")
	if err != nil {
		t.Fatalf("LoadBundle() error = %v", err)
	}

	service := NewNotificationService(
		repo,
		herdRepo,
		[]notification.Sender{whatsapp, sms, email},
		bundle,
		nil,
		5*time.Second,
		log,
	)

	herdRepo.Animals[1] = &herd.Animal{ID: 1, FarmID: 1, Name: "Nandini", TagNumber: "PP-101", Species: "cow"}
	herdRepo.Caretakers[1] = []*herd.Caretaker{
		{ID: 1, FarmID: 1, Name: "Ramesh", Phone: "+919876543210", Email: "ramesh@example.com", Language: "hi"},
	}

	return &notificationFixture{
		repo:     repo,
		herdRepo: herdRepo,
		whatsapp: whatsapp,
		sms:      sms,
		email:    email,
		service:  service,
	}
}

func testAlert() *alert.Alert {
	return &alert.Alert{
		ID:       1,
		AnimalID: 1,
		FarmID:   1,
		Category: alert.CategoryGeofence,
		Severity: alert.SeverityHigh,
		Message:  "Nandini has strayed 450m from the farm boundary (boundary: 300m)",
		IsOpen:   true,
	}
}

func TestNotificationService_Dispatch_AllChannels(t *testing.T) {
	f := newNotificationFixture(t)

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 1 {
		t.Errorf("whatsapp sent = %d, want 1", f.whatsapp.SentCount())
	}
	if f.sms.SentCount() != 1 {
		t.Errorf("sms sent = %d, want 1", f.sms.SentCount())
	}
	if f.email.SentCount() != 1 {
		t.Errorf("email sent = %d, want 1", f.email.SentCount())
	}

	sent := f.repo.LogsByStatus(notification.DeliveryStatusSent)
	if len(sent) != 3 {
		t.Errorf("sent logs = %d, want 3", len(sent))
	}
	for _, l := range sent {
		if l.SentAt == nil {
			t.Error("sent log missing SentAt")
		}
	}
}

func TestNotificationService_Dispatch_HonorsPreferences(t *testing.T) {
	f := newNotificationFixture(t)
	f.repo.UpsertPreference(context.Background(), &notification.Preference{
		CaretakerID:     1,
		WhatsAppEnabled: true,
		SMSEnabled:      false,
		EmailEnabled:    false,
	})

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 1 {
		t.Errorf("whatsapp sent = %d, want 1", f.whatsapp.SentCount())
	}
	if f.sms.SentCount() != 0 {
		t.Errorf("sms sent = %d, want 0", f.sms.SentCount())
	}
	if f.email.SentCount() != 0 {
		t.Errorf("email sent = %d, want 0", f.email.SentCount())
	}
}

func TestNotificationService_Dispatch_FailureIsolated(t *testing.T) {
	f := newNotificationFixture(t)
	f.whatsapp.SendError = fmt.Errorf("twilio 500")

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.sms.SentCount() != 1 || f.email.SentCount() != 1 {
		t.Errorf("sms=%d email=%d, want 1/1: one channel failing must not block the others",
			f.sms.SentCount(), f.email.SentCount())
	}

	failed := f.repo.LogsByStatus(notification.DeliveryStatusFailed)
	if len(failed) != 1 {
		t.Fatalf("failed logs = %d, want 1", len(failed))
	}
	if failed[0].Channel != notification.ChannelWhatsApp {
		t.Errorf("failed channel = %q, want whatsapp", failed[0].Channel)
	}
	if !strings.Contains(failed[0].ErrorMessage, "twilio 500") {
		t.Errorf("ErrorMessage = %q", failed[0].ErrorMessage)
	}
}

func TestNotificationService_Dispatch_LocalizedContent(t *testing.T) {
	f := newNotificationFixture(t)

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 1 {
		t.Fatalf("whatsapp sent = %d, want 1", f.whatsapp.SentCount())
	}
	msg := f.whatsapp.Sent[0]
	if msg.To != "+919876543210" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.Language != "hi" {
		t.Errorf("Language = %q, want hi: caretaker language must drive the locale", msg.Language)
	}
	if !strings.Contains(msg.Body, "Nandini has strayed") {
		t.Errorf("Body missing alert message: %q", msg.Body)
	}

	email := f.email.Sent[0]
	if email.Subject == "" || email.HTMLBody == "" {
		t.Error("email missing subject or HTML body")
	}
	if !strings.Contains(email.HTMLBody, "Nandini") {
		t.Errorf("HTMLBody missing animal name")
	}
}

func TestNotificationService_Dispatch_SkipsMissingContact(t *testing.T) {
	f := newNotificationFixture(t)
	f.herdRepo.Caretakers[1] = []*herd.Caretaker{
		{ID: 1, FarmID: 1, Name: "Ramesh", Email: "ramesh@example.com"}, // no phone
	}

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 0 || f.sms.SentCount() != 0 {
		t.Error("phone channels must be skipped when the caretaker has no phone")
	}
	if f.email.SentCount() != 1 {
		t.Errorf("email sent = %d, want 1", f.email.SentCount())
	}
	// Skipped channels record nothing: they were never attempted.
	if len(f.repo.Logs) != 1 {
		t.Errorf("logs = %d, want 1", len(f.repo.Logs))
	}
}

func TestNotificationService_Dispatch_MultipleCaretakers(t *testing.T) {
	f := newNotificationFixture(t)
	f.herdRepo.Caretakers[1] = []*herd.Caretaker{
		{ID: 1, FarmID: 1, Name: "Ramesh", Phone: "+919876543210", Email: "ramesh@example.com", Language: "hi"},
		{ID: 2, FarmID: 1, Name: "Sita", Phone: "+919876500000", Email: "sita@example.com", Language: "mr"},
	}

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 2 {
		t.Errorf("whatsapp sent = %d, want 2", f.whatsapp.SentCount())
	}
	if len(f.repo.Logs) != 6 {
		t.Errorf("logs = %d, want 6", len(f.repo.Logs))
	}
}

func TestNotificationService_Dispatch_NoCaretakers(t *testing.T) {
	f := newNotificationFixture(t)
	f.herdRepo.Caretakers[1] = nil

	f.service.Dispatch(testAlert())
	f.service.Wait()

	if f.whatsapp.SentCount() != 0 || len(f.repo.Logs) != 0 {
		t.Error("no caretakers should mean no sends and no logs")
	}
}

func TestNotificationService_History(t *testing.T) {
	f := newNotificationFixture(t)

	f.service.Dispatch(testAlert())
	f.service.Wait()

	logs, err := f.service.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("History() = %d logs, want 3", len(logs))
	}
}
