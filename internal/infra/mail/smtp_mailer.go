// Package mail delivers rendered messages over SMTP.
package mail

import (
	"context"
	"log/slog"
	"net/textproto"

	"talk/config"
	"talk/internal/domain/entity"
	"talk/internal/domain/service"
	"talk/internal/errors"

	"gopkg.in/gomail.v2"
)

// sender is the part of *gomail.Dialer the mailer uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	from   string
	sender sender
}

// NewSMTPMailer builds a mailer from the smtp config section. Without one,
// messages are logged and dropped.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" {
		logger.Warn("SMTP not configured, mail will be logged and dropped")

		return &logMailer{logger: logger}
	}

	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	return &smtpMailer{from: cfg.SMTP.From, sender: dialer}
}

// Send delivers msg. Permanent SMTP failures (5xx replies) wrap ErrMailRejected;
// anything else is worth retrying.
func (m *smtpMailer) Send(ctx context.Context, msg entity.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.HTMLBody)

	if err := m.sender.DialAndSend(message); err != nil {
		if isPermanent(err) {
			return errors.Wrapf(service.ErrMailRejected, "smtp rejected message: %v", err)
		}

		return errors.Wrap(err, "smtp send failed")
	}

	return nil
}

func isPermanent(err error) bool {
	protoErr, ok := errors.AsType[*textproto.Error](err)

	return ok && protoErr.Code >= 500 && protoErr.Code < 600
}

type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(ctx context.Context, msg entity.MailMessage) error {
	m.logger.InfoContext(ctx, "mail dropped, smtp disabled",
		slog.String("subject", msg.Subject),
	)

	return nil
}
