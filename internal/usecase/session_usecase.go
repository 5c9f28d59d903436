package usecase

import (
	"context"

	"github.com/google/uuid"
)

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // Access token lifetime in seconds.
	Profile      *ProfileView
}

// RefreshOutput carries a newly minted access token.
type RefreshOutput struct {
	AccessToken string
	ExpiresIn   int64
}

// PasswordResetOutput reports whether the reset link was handed to the mail bus.
type PasswordResetOutput struct {
	Dispatched bool
	Warnings   []Warning
}

// SessionUsecase issues and revokes credentials.
type SessionUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, refreshToken string) (*RefreshOutput, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) (*PasswordResetOutput, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) error
}
