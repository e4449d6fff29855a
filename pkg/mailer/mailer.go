package mailer

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("no email recipients")

// Config holds SMTP relay credentials and the fixed sender address.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers one plain-text email.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a Sender that authenticates against the relay with username and password.
func NewSMTPSender(cfg Config) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMessage(s.from, to, subject, body)
	if err != nil {
		return err
	}
	return s.dialer.DialAndSend(msg)
}

func buildMessage(from string, to []string, subject, body string) (*gomail.Message, error) {
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m, nil
}
