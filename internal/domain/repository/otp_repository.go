package repository

import (
	"context"
	"time"

	"talk/internal/domain/entity"
	"talk/internal/errors"

	"github.com/google/uuid"
)

// ErrOTPNotFound is returned when no one-time password matches a code.
var ErrOTPNotFound = errors.New("otp not found")

// OTPRepository persists one-time passwords.
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OneTimePassword) error

	// FindLatestByCode returns the most recently created row with code and
	// locks it for the rest of the transaction where the database supports it.
	FindLatestByCode(ctx context.Context, code string) (*entity.OneTimePassword, error)

	MarkUsed(ctx context.Context, id uuid.UUID) error

	// InvalidateForAccount marks every unused code of accountID as used and
	// returns how many were affected.
	InvalidateForAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// DeleteExpiredBefore removes rows that expired before cutoff and returns how many went.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
