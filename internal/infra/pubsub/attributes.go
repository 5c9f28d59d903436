package pubsub

import (
	"talk/internal/domain/constants"
	"talk/internal/domain/service"
)

// mailAttributes builds the message attributes used for filtering and tracing.
func mailAttributes(event *service.MailEvent) map[string]string {
	attributes := map[string]string{
		constants.AttrEventID:  event.EventID,
		constants.AttrMailKind: string(event.Kind),
	}
	if event.RequestID != "" {
		attributes[constants.AttrRequestID] = event.RequestID
	}

	return attributes
}
