package impl

import (
	"context"
	"log/slog"

	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/entity"
	"talk/internal/domain/service"
	"talk/internal/usecase"

	"github.com/google/uuid"
)

// mailDispatcher publishes mail events after a transaction commits. Failures
// are logged and turned into warnings; they never fail the caller.
type mailDispatcher struct {
	publisher service.MailPublisher
	logger    *slog.Logger
}

func newMailDispatcher(publisher service.MailPublisher, logger *slog.Logger) *mailDispatcher {
	return &mailDispatcher{publisher: publisher, logger: logger}
}

// dispatch returns nil when the event was published.
func (d *mailDispatcher) dispatch(ctx context.Context, kind entity.MailKind, account *entity.Account, msg entity.MailMessage) *usecase.Warning {
	logger := deliverycontext.GetLoggerOrDefault(ctx, d.logger)

	event := &service.MailEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		EventID:   uuid.NewString(),
		Kind:      kind,
		AccountID: account.ID.String(),
		Message:   msg,
	}

	if err := d.publisher.PublishMailEvent(ctx, event); err != nil {
		logger.Warn("Failed to dispatch mail",
			slog.String("kind", string(kind)),
			slog.String("accountID", account.ID.String()),
			slog.String("eventID", event.EventID),
			slog.Any("error", err),
		)

		return &usecase.Warning{
			Code:    usecase.WarningMailDispatchFailed,
			Message: "the email could not be sent, request a new one later",
		}
	}

	logger.Debug("Mail dispatched",
		slog.String("kind", string(kind)),
		slog.String("accountID", account.ID.String()),
		slog.String("eventID", event.EventID),
	)

	return nil
}

// collect appends w to warnings when set and reports whether dispatch succeeded.
func collect(warnings []usecase.Warning, w *usecase.Warning) ([]usecase.Warning, bool) {
	if w == nil {
		return warnings, true
	}

	return append(warnings, *w), false
}
