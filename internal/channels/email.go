package channels

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/errors"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
)

// EmailSender delivers alert emails over SMTP
type EmailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	log      *logger.Logger

	// sendMail is swappable in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an SMTP email sender
func NewEmailSender(host string, port int, username, password, from string, log *logger.Logger) *EmailSender {
	return &EmailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

func (s *EmailSender) Channel() notification.Channel {
	return notification.ChannelEmail
}

func (s *EmailSender) Send(ctx context.Context, msg *notification.Message) error {
	if s.host == "" || s.from == "" {
		return errors.NotificationError("email", fmt.Errorf("smtp is not configured"))
	}
	if msg.To == "" {
		return errors.NotificationError("email", fmt.Errorf("recipient address is empty"))
	}

	body := msg.HTMLBody
	contentType := "text/html; charset=UTF-8"
	if body == "" {
		body = msg.Body
		contentType = "text/plain; charset=UTF-8"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// smtp.SendMail has no context support; run it in a goroutine so the
	// dispatch timeout still applies.
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.from, []string{msg.To}, []byte(b.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.NotificationError("email", err)
		}
	case <-ctx.Done():
		return errors.NotificationError("email", ctx.Err())
	}

	s.log.WithFields(map[string]interface{}{"to": msg.To}).Debug("email sent")
	return nil
}
