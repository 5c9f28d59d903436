// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"talk/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	Email              string `validate:"required,email,max=254"`
	Password           string `validate:"required"`
	FirstName          string `validate:"max=150"`
	LastName           string `validate:"max=150"`
	Role               string // Empty means no role yet.
	Gender             string `validate:"omitempty,oneof=male female"`
	University         string `validate:"max=100"`
	Level              string `validate:"omitempty,oneof=100 200 300 400 500 graduate"`
	RegistrationNumber string `validate:"max=100"`
	State              string `validate:"max=100"`
	Policy             bool
	MarketingEmails    bool
}

// ImportAccountInput brings an account over from another system with its talk_id.
type ImportAccountInput struct {
	Email         string `validate:"required,email,max=254"`
	Password      string `validate:"required"`
	FirstName     string `validate:"required,max=150"`
	LastName      string `validate:"required,max=150"`
	TalkID        string `validate:"required"`
	Role          string
	EmailVerified bool
}

// UpdateAccountInput patches account fields. Nil pointers are left untouched.
type UpdateAccountInput struct {
	Email              *string `validate:"omitempty,email,max=254"`
	FirstName          *string `validate:"omitempty,max=150"`
	LastName           *string `validate:"omitempty,max=150"`
	Gender             *string `validate:"omitempty,oneof=male female"`
	University         *string `validate:"omitempty,max=100"`
	Level              *string `validate:"omitempty,oneof=100 200 300 400 500 graduate"`
	RegistrationNumber *string `validate:"omitempty,max=100"`
	State              *string `validate:"omitempty,max=100"`
	Availability       *string `validate:"omitempty,oneof=available busy offline"`
	MarketingEmails    *bool
}

// --- Output DTOs ---

// RegisterOutput returns the created account and how the verification mail fared.
type RegisterOutput struct {
	Account       *entity.Account
	OTPDispatched bool
	Warnings      []Warning
}

// UpdateAccountOutput returns the saved account. OTPDispatched is set when an
// email change triggered a new verification code.
type UpdateAccountOutput struct {
	Account       *entity.Account
	OTPDispatched bool
	Warnings      []Warning
}

// AccountUsecase defines the account lifecycle operations.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	ImportAccount(ctx context.Context, input *ImportAccountInput) (*RegisterOutput, error)
	SetRole(ctx context.Context, accountID uuid.UUID, role string) (*entity.Account, error)
	UpdateAccount(ctx context.Context, accountID uuid.UUID, input *UpdateAccountInput) (*UpdateAccountOutput, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error)
}
