package services

import (
	"context"
	"sync"
	"time"

	"github.com/pashupehchan/herdwatch/internal/channels"
	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/domain/notification"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
	"github.com/pashupehchan/herdwatch/internal/pkg/metrics"
)

// NotificationService fans created alerts out to caretaker channels.
// It implements notification.Dispatcher.
type NotificationService struct {
	repo        notification.Repository
	herdRepo    herd.Repository
	senders     map[notification.Channel]notification.Sender
	bundle      *channels.Bundle
	insights    *InsightService
	sendTimeout time.Duration
	logger      *logger.Logger
	wg          sync.WaitGroup
}

// NewNotificationService creates the dispatcher. insights may be nil.
func NewNotificationService(
	repo notification.Repository,
	herdRepo herd.Repository,
	senders []notification.Sender,
	bundle *channels.Bundle,
	insights *InsightService,
	sendTimeout time.Duration,
	log *logger.Logger,
) *NotificationService {
	byChannel := make(map[notification.Channel]notification.Sender, len(senders))
	for _, s := range senders {
		byChannel[s.Channel()] = s
	}
	return &NotificationService{
		repo:        repo,
		herdRepo:    herdRepo,
		senders:     byChannel,
		bundle:      bundle,
		insights:    insights,
		sendTimeout: sendTimeout,
		logger:      log,
	}
}

// Dispatch delivers an alert to every enabled caretaker channel without
// blocking the caller. Delivery failures are logged and recorded, never
// surfaced: a channel outage must not affect alert creation.
func (s *NotificationService) Dispatch(a *alert.Alert) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(context.Background(), a)
	}()
}

// Wait blocks until every in-flight dispatch has finished. Used on shutdown
// and in tests.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) deliver(ctx context.Context, a *alert.Alert) {
	animal, err := s.herdRepo.GetAnimal(ctx, a.AnimalID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
		}).ErrorWithErr(err, "Cannot notify: animal lookup failed")
		return
	}

	caretakers, err := s.herdRepo.ListCaretakers(ctx, a.FarmID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"farm_id":  a.FarmID,
		}).ErrorWithErr(err, "Cannot notify: caretaker lookup failed")
		return
	}
	if len(caretakers) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"farm_id":  a.FarmID,
		}).Warn("No caretakers to notify")
		return
	}

	insight := ""
	if s.insights != nil && a.Severity == alert.SeverityHigh && a.Category == alert.CategoryHealth {
		insight = s.insights.CareAdvice(ctx, a, animal)
	}

	var sends sync.WaitGroup
	for _, caretaker := range caretakers {
		pref, err := s.repo.GetPreference(ctx, caretaker.ID)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"alert_id":     a.ID,
				"caretaker_id": caretaker.ID,
			}).ErrorWithErr(err, "Preference lookup failed, using defaults")
			pref = notification.DefaultPreference(caretaker.ID)
		}

		loc := s.bundle.Locale(caretaker.Language)
		for _, channel := range notification.AllChannels() {
			if !pref.Enabled(channel) {
				continue
			}
			sender, ok := s.senders[channel]
			if !ok {
				continue
			}
			msg := s.buildMessage(loc, a, animal, caretaker, channel, insight)
			if msg == nil {
				continue
			}

			sends.Add(1)
			go func(c *herd.Caretaker, sender notification.Sender, msg *notification.Message) {
				defer sends.Done()
				s.sendOne(ctx, a, c, sender, msg)
			}(caretaker, sender, msg)
		}
	}
	sends.Wait()
}

func (s *NotificationService) buildMessage(
	loc *channels.Locale,
	a *alert.Alert,
	animal *herd.Animal,
	caretaker *herd.Caretaker,
	channel notification.Channel,
	insight string,
) *notification.Message {
	switch channel {
	case notification.ChannelWhatsApp, notification.ChannelSMS:
		if caretaker.Phone == "" {
			return nil
		}
		return &notification.Message{
			To:       caretaker.Phone,
			Body:     channels.RenderText(loc, a, animal),
			Language: loc.Language,
		}
	case notification.ChannelEmail:
		if caretaker.Email == "" {
			return nil
		}
		return &notification.Message{
			To:       caretaker.Email,
			Subject:  channels.RenderSubject(loc, a, animal),
			Body:     channels.RenderText(loc, a, animal),
			HTMLBody: channels.RenderEmailHTML(loc, a, animal, insight),
			Language: loc.Language,
		}
	default:
		return nil
	}
}

// sendOne records the attempt, performs the send under the per-send timeout,
// and records the result. One channel failing never affects another.
func (s *NotificationService) sendOne(
	ctx context.Context,
	a *alert.Alert,
	caretaker *herd.Caretaker,
	sender notification.Sender,
	msg *notification.Message,
) {
	log := &notification.Log{
		AlertID:     a.ID,
		CaretakerID: caretaker.ID,
		Channel:     sender.Channel(),
		Status:      notification.DeliveryStatusPending,
	}
	if err := s.repo.CreateLog(ctx, log); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"channel":  sender.Channel(),
		}).ErrorWithErr(err, "Failed to record notification attempt")
	}

	sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	start := time.Now()
	err := sender.Send(sctx, msg)
	duration := time.Since(start)

	now := time.Now().UTC()
	if err != nil {
		log.Status = notification.DeliveryStatusFailed
		log.ErrorMessage = err.Error()
		s.logger.WithFields(map[string]interface{}{
			"alert_id":     a.ID,
			"caretaker_id": caretaker.ID,
			"channel":      sender.Channel(),
		}).ErrorWithErr(err, "Notification delivery failed")
		metrics.RecordNotification(string(sender.Channel()), "failed", duration)
	} else {
		log.Status = notification.DeliveryStatusSent
		log.SentAt = &now
		s.logger.WithFields(map[string]interface{}{
			"alert_id":     a.ID,
			"caretaker_id": caretaker.ID,
			"channel":      sender.Channel(),
		}).Info("Notification delivered")
		metrics.RecordNotification(string(sender.Channel()), "sent", duration)
	}

	if log.ID != "" {
		if err := s.repo.UpdateLog(ctx, log); err != nil {
			s.logger.ErrorWithErr(err, "Failed to update notification log")
		}
	}
}

// GetPreference returns a caretaker's channel preferences, defaulting to all
// channels enabled
func (s *NotificationService) GetPreference(ctx context.Context, caretakerID int64) (*notification.Preference, error) {
	return s.repo.GetPreference(ctx, caretakerID)
}

// UpdatePreference stores a caretaker's channel preferences
func (s *NotificationService) UpdatePreference(ctx context.Context, pref *notification.Preference) error {
	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update alert preference")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"caretaker_id": pref.CaretakerID,
		"whatsapp":     pref.WhatsAppEnabled,
		"sms":          pref.SMSEnabled,
		"email":        pref.EmailEnabled,
	}).Info("Alert preference updated")

	return nil
}

// History returns the delivery log for an alert
func (s *NotificationService) History(ctx context.Context, alertID int64) ([]*notification.Log, error) {
	return s.repo.ListLogsByAlert(ctx, alertID)
}
