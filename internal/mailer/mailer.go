package mailer

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"example.com/campusdrop/config"
)

// Mailer delivers transactional email to students
type Mailer interface {
	SendDeliveryOTP(to, code string, validity time.Duration) error
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendDeliveryOTP emails the delivery confirmation code to the student.
// The stated expiry matches the configured validity window.
func (m *SMTPMailer) SendDeliveryOTP(to, code string, validity time.Duration) error {
	minutes := int(validity.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Delivery OTP")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your OTP for parcel delivery is: %s\n\nThis OTP will expire in %d minutes.\n\nIf you did not request this OTP, please ignore this email.", code, minutes))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Delivery OTP Verification</h2>
  <p>Your OTP for parcel delivery is:</p>
  <h1 style="font-size: 32px; letter-spacing: 5px;">%s</h1>
  <p>This OTP will expire in %d minutes.</p>
</div>`, code, minutes))

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send OTP email")
		return errors.Wrap(err, "failed to send OTP email")
	}
	return nil
}
