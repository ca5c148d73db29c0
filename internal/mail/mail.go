package mail

import (
	"fmt"

	"github.com/artelier/store-backend/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender dispatches one HTML email. Handlers depend on this interface so
// tests can swap in a recorder.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends over plain SMTP with the credentials from config.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// ResetPasswordBody builds the forgot-password email around the raw reset
// link. The raw token only ever travels inside this message.
func ResetPasswordBody(resetURL string) string {
	return fmt.Sprintf(
		`<h2>Password Reset</h2><p>Click the link below to reset your password:</p><a href="%s">%s</a><p>This link will expire in 10 minutes.</p>`,
		resetURL, resetURL,
	)
}
