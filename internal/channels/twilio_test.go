package channels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func TestWhatsAppSenderSend(t *testing.T) {
	var gotFrom, gotTo, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		gotFrom = r.PostForm.Get("From")
		gotTo = r.PostForm.Get("To")
		gotBody = r.PostForm.Get("Body")

		if user, _, ok := r.BasicAuth(); !ok || user != "AC123" {
			t.Errorf("missing basic auth, user = %q", user)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	client := NewTwilioClient("AC123", "token")
	client.baseURL = srv.URL
	sender := NewWhatsAppSender(client, "+14155238886", "91", testLogger())

	err := sender.Send(context.Background(), &notification.Message{
		To:   "9876543210",
		Body: "🚨 *PASHU ALERT* 🚨",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotFrom != "whatsapp:+14155238886" {
		t.Errorf("From = %q", gotFrom)
	}
	if gotTo != "whatsapp:+919876543210" {
		t.Errorf("To = %q", gotTo)
	}
	if gotBody == "" {
		t.Error("Body is empty")
	}
}

func TestSMSSenderStripsMarkdown(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewTwilioClient("AC123", "token")
	client.baseURL = srv.URL
	sender := NewSMSSender(client, "+12025550100", "91", testLogger())

	err := sender.Send(context.Background(), &notification.Message{
		To:   "9876543210",
		Body: "*Geofence Alert* (High)",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotBody != "Geofence Alert (High)" {
		t.Errorf("Body = %q, want markdown stripped", gotBody)
	}
}

func TestTwilioClientErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' phone number"}`))
	}))
	defer srv.Close()

	client := NewTwilioClient("AC123", "token")
	client.baseURL = srv.URL

	err := client.SendMessage(context.Background(), "+1", "+2", "hi")
	if err == nil {
		t.Fatal("SendMessage() expected error")
	}
}

func TestSendersRequireConfiguration(t *testing.T) {
	client := NewTwilioClient("", "")
	wa := NewWhatsAppSender(client, "", "91", testLogger())
	sms := NewSMSSender(client, "", "91", testLogger())

	msg := &notification.Message{To: "9876543210", Body: "x"}
	if err := wa.Send(context.Background(), msg); err == nil {
		t.Error("whatsapp Send() should fail without credentials")
	}
	if err := sms.Send(context.Background(), msg); err == nil {
		t.Error("sms Send() should fail without credentials")
	}
}
