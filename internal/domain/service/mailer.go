package service

import (
	"context"

	"talk/internal/domain/entity"
	"talk/internal/errors"
)

// ErrMailRejected marks a message the mail server will never accept;
// retrying it is pointless.
var ErrMailRejected = errors.New("mail rejected")

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg entity.MailMessage) error
}
