package email

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/medicab/booking-api/internal/config"
)

// Notifier sends transactional mail. Sending is best effort: a failed
// delivery never fails the request that triggered it.
type Notifier interface {
	SendReservationConfirmation(to, username string, scheduledAt time.Time) error
}

type smtpNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *zerolog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *zerolog.Logger) Notifier {
	return &smtpNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (n *smtpNotifier) SendReservationConfirmation(to, username string, scheduledAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Appointment reservation confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been reserved and is pending confirmation by the doctor.\n",
		username, scheduledAt.Format("Monday, 2 January 2006 at 15:04")))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reservation confirmation: %w", err)
	}
	return nil
}

// NoopNotifier is used when SMTP is not configured.
type NoopNotifier struct{}

func (NoopNotifier) SendReservationConfirmation(string, string, time.Time) error {
	return nil
}
