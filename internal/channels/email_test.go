package channels

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/pashupehchan/herdwatch/internal/domain/notification"
)

func TestEmailSenderSend(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	s := NewEmailSender("smtp.example.com", 587, "user", "pass", "alerts@example.com", testLogger())
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), &notification.Message{
		To:       "farmer@example.com",
		Subject:  "Pashu Alert: Health Alert - Lakshmi",
		HTMLBody: "<p>Isolation Required</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "alerts@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "farmer@example.com" {
		t.Errorf("to = %v", gotTo)
	}

	msg := string(gotMsg)
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Error("message should be html")
	}
	if !strings.Contains(msg, "Isolation Required") {
		t.Error("message body missing")
	}
}

func TestEmailSenderUnconfigured(t *testing.T) {
	s := NewEmailSender("", 0, "", "", "", testLogger())
	err := s.Send(context.Background(), &notification.Message{To: "x@example.com"})
	if err == nil {
		t.Fatal("Send() should fail without smtp host")
	}
}

func TestEmailSenderHonorsContext(t *testing.T) {
	s := NewEmailSender("smtp.example.com", 587, "", "", "alerts@example.com", testLogger())
	block := make(chan struct{})
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		<-block
		return nil
	}
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, &notification.Message{To: "x@example.com", Subject: "s", Body: "b"})
	if err == nil {
		t.Fatal("Send() should fail when context is cancelled")
	}
}
