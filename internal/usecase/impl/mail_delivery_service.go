package impl

import (
	"context"
	"log/slog"

	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/service"
	"talk/internal/errors"
	"talk/internal/usecase"
)

// mailDeliveryService implements the MailDeliveryUsecase interface.
type mailDeliveryService struct {
	mailer service.Mailer
	logger *slog.Logger
}

// NewMailDeliveryService is the constructor for mailDeliveryService.
func NewMailDeliveryService(mailer service.Mailer, logger *slog.Logger) usecase.MailDeliveryUsecase {
	return &mailDeliveryService{mailer: mailer, logger: logger}
}

// Deliver sends the event's message. Errors wrapping service.ErrMailRejected
// will never succeed on retry.
func (srv *mailDeliveryService) Deliver(ctx context.Context, event *service.MailEvent) error {
	if event == nil || event.Message.To == "" {
		return domainerrors.ErrValidationFailed.WithDetails("mail event has no recipient")
	}

	switch event.Kind {
	case entity.MailKindVerification, entity.MailKindPasswordReset:
	default:
		return domainerrors.ErrValidationFailed.WithDetails("unknown mail kind " + string(event.Kind))
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger).With(
		slog.String("eventID", event.EventID),
		slog.String("kind", string(event.Kind)),
		slog.String("accountID", event.AccountID),
	)

	if err := srv.mailer.Send(ctx, event.Message); err != nil {
		logger.Warn("Mail delivery failed", slog.Any("error", err))

		return errors.Wrap(err, "failed to deliver mail")
	}

	logger.Info("Mail delivered")

	return nil
}
