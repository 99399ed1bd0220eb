package notifications

import (
	"context"
	"errors"

	gomail "gopkg.in/gomail.v2"

	"github.com/elevate-hq/elevate-backend/pkg/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a single message; implementations report failure as an
// error, never a panic.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from config.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, errors.New("mail from address is required")
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.DefaultFrom,
	}, nil
}

// Send delivers one message. The context is honored before dialing; gomail
// itself does not take a context.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTML)
	return m.dialer.DialAndSend(mail)
}
