// Package mail delivers plain-text mail over SMTP.
package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// SMTPMailer sends one message per SMTP connection.
type SMTPMailer struct {
	from   string
	dialer func() (gomail.SendCloser, error)
	logger *zap.Logger
}

var _ provider.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for the configured SMTP relay
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newSMTPMailer(cfg.From, d.Dial, logger)
}

func newSMTPMailer(from string, dial func() (gomail.SendCloser, error), logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: dial,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, mail provider.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	if mail.ReplyTo != "" {
		msg.SetHeader("Reply-To", mail.ReplyTo)
	}
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/plain", mail.Body)

	sender, err := m.dialer()
	if err != nil {
		m.logger.Error("Failed to connect to SMTP server", zap.Error(err))
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, msg); err != nil {
		m.logger.Error("Failed to send mail",
			zap.String("to", mail.To),
			zap.String("subject", mail.Subject),
			zap.Error(err))
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("Mail sent",
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject))
	return nil
}
