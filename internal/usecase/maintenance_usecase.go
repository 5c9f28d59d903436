package usecase

import (
	"context"

	"talk/internal/domain/service"
)

// PurgeResult counts the rows removed by a purge.
type PurgeResult struct {
	OTPs          int64 `json:"otps"`
	RefreshTokens int64 `json:"refresh_tokens"`
}

// MaintenanceUsecase removes data that can no longer be used.
type MaintenanceUsecase interface {
	PurgeExpired(ctx context.Context) (*PurgeResult, error)
}

// MailDeliveryUsecase hands a published mail event to the mailer.
type MailDeliveryUsecase interface {
	Deliver(ctx context.Context, event *service.MailEvent) error
}
