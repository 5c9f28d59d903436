package usecase

import (
	"context"

	"talk/internal/domain/entity"
)

// ResendOutput reports whether the new code was handed to the mail bus.
type ResendOutput struct {
	OTPDispatched bool
	Warnings      []Warning
}

// VerificationUsecase proves ownership of an email address with one-time codes.
type VerificationUsecase interface {
	// VerifyOTP consumes code and marks its account verified.
	VerifyOTP(ctx context.Context, code string) (*entity.Account, error)

	// ResendOTP issues a fresh code for an unverified account.
	ResendOTP(ctx context.Context, email string) (*ResendOutput, error)
}
