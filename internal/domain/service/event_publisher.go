package service

import (
	"context"

	"talk/internal/domain/entity"
)

// MailEvent asks the worker to deliver one email.
type MailEvent struct {
	RequestID string             `json:"request_id,omitempty"` // For distributed tracing
	EventID   string             `json:"event_id"`
	Kind      entity.MailKind    `json:"kind"`
	AccountID string             `json:"account_id"`
	Message   entity.MailMessage `json:"message"`
}

// MailPublisher hands mail events to the message bus. Publishing never
// waits on SMTP.
type MailPublisher interface {
	// PublishMailEvent publishes a mail event for async delivery
	PublishMailEvent(ctx context.Context, event *MailEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
