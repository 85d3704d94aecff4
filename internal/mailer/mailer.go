package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/atelmoda/storefront-backend/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. The login flow depends on this
// interface so tests can swap in a recording fake.
type Sender interface {
	SendLoginCode(ctx context.Context, to, username, code string) error
}

// SMTPSender sends mail through an SMTP relay using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	ttl    time.Duration
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
		ttl:    cfg.OTPExpiry,
	}
}

func (s *SMTPSender) SendLoginCode(ctx context.Context, to, username, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your login code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour one-time login code is: %s\nIt expires in %d minutes.",
		username, code, int(s.ttl.Minutes()),
	))

	// DialAndSend has no context support, so run it in a goroutine and let
	// the caller's deadline win.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("mail send cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send login code: %w", err)
		}
	}
	return nil
}
