package dispatch

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/notification-api/internal/model"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailDispatcher delivers email-channel results over SMTP.
type EmailDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailDispatcher(cfg SMTPConfig) *EmailDispatcher {
	return &EmailDispatcher{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (d *EmailDispatcher) Dispatch(_ context.Context, result *model.RenderResult, recipient model.Recipient) error {
	if recipient.Email == "" {
		return fmt.Errorf("email dispatch requires a recipient address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", recipient.Email)
	m.SetHeader("Subject", result.Subject)
	m.SetBody("text/html", result.Body)

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
