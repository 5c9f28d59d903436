package usecase

import (
	"context"

	"talk/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileView is the merged, client-facing shape of an account and its
// role sub-profile. At most one of the embedded views is set; when neither
// is, the role-specific keys are absent from the JSON.
type ProfileView struct {
	ID                 uuid.UUID   `json:"id"`
	TalkID             string      `json:"talk_id"`
	Email              string      `json:"email,omitempty"`
	Role               entity.Role `json:"role"`
	EmailVerified      bool        `json:"email_verified"`
	FirstName          string      `json:"first_name"`
	LastName           string      `json:"last_name"`
	Gender             string      `json:"gender"`
	University         string      `json:"university"`
	Level              string      `json:"level"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	State              string      `json:"state"`
	Availability       string      `json:"availability"`

	*IndividualView
	*ServiceProviderView
}

// IndividualView holds the individual sub-profile fields.
type IndividualView struct {
	PhoneNumber     string   `json:"phone_number"`
	DateOfBirth     string   `json:"date_of_birth"` // YYYY-MM-DD
	Interests       []string `json:"interests"`
	Bio             string   `json:"bio"`
	ProfilePhotoURL *string  `json:"profile_photo_url"`
}

// ServiceProviderView holds the service provider sub-profile fields.
type ServiceProviderView struct {
	BusinessName    string  `json:"business_name"`
	BusinessEmail   string  `json:"business_email"`
	BusinessTel     string  `json:"business_tel"`
	BusinessType    string  `json:"business_type"`
	Description     string  `json:"description"`
	City            string  `json:"city"`
	Address         string  `json:"address"`
	AddressVerified bool    `json:"address_verified"`
	LogoURL         *string `json:"logo_url"`
}

// ProfileComposer merges an account with the sub-profile its role selects.
type ProfileComposer interface {
	Compose(ctx context.Context, account *entity.Account) *ProfileView
}

// --- Input DTOs ---

// IndividualProfileInput defines the data required to create an individual profile.
type IndividualProfileInput struct {
	PhoneNumber string   `validate:"required,e164"`
	DateOfBirth string   `validate:"required,datetime=2006-01-02"`
	Interests   []string `validate:"max=20,dive,max=50"`
	Bio         string   `validate:"max=500"`
}

// UpdateIndividualProfileInput patches an individual profile.
type UpdateIndividualProfileInput struct {
	PhoneNumber *string  `validate:"omitempty,e164"`
	DateOfBirth *string  `validate:"omitempty,datetime=2006-01-02"`
	Interests   []string `validate:"omitempty,max=20,dive,max=50"`
	Bio         *string  `validate:"omitempty,max=500"`
}

// ServiceProviderProfileInput defines the data required to create a service provider profile.
type ServiceProviderProfileInput struct {
	BusinessName  string `validate:"required,max=255"`
	BusinessEmail string `validate:"required,email,max=254"`
	BusinessTel   string `validate:"required,e164"`
	BusinessType  string `validate:"max=100"`
	Description   string `validate:"max=2000"`
	Bio           string `validate:"max=500"`
	City          string `validate:"max=100"`
	Address       string `validate:"max=255"`
}

// UpdateServiceProviderProfileInput patches a service provider profile.
type UpdateServiceProviderProfileInput struct {
	BusinessName  *string `validate:"omitempty,max=255"`
	BusinessEmail *string `validate:"omitempty,email,max=254"`
	BusinessTel   *string `validate:"omitempty,e164"`
	BusinessType  *string `validate:"omitempty,max=100"`
	Description   *string `validate:"omitempty,max=2000"`
	Bio           *string `validate:"omitempty,max=500"`
	City          *string `validate:"omitempty,max=100"`
	Address       *string `validate:"omitempty,max=255"`
}

// MediaUpload is an uploaded image.
type MediaUpload struct {
	Filename    string `validate:"required"`
	ContentType string `validate:"required,oneof=image/jpeg image/png image/webp"`
	Data        []byte `validate:"required,max=5242880"`
}

// ProfileUsecase defines the profile operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*ProfileView, error)
	// GetPublicProfile omits the email and registration number.
	GetPublicProfile(ctx context.Context, accountID uuid.UUID) (*ProfileView, error)

	CreateIndividualProfile(ctx context.Context, accountID uuid.UUID, input *IndividualProfileInput) (*ProfileView, error)
	UpdateIndividualProfile(ctx context.Context, accountID uuid.UUID, input *UpdateIndividualProfileInput) (*ProfileView, error)
	CreateServiceProviderProfile(ctx context.Context, accountID uuid.UUID, input *ServiceProviderProfileInput) (*ProfileView, error)
	UpdateServiceProviderProfile(ctx context.Context, accountID uuid.UUID, input *UpdateServiceProviderProfileInput) (*ProfileView, error)

	UploadProfilePhoto(ctx context.Context, accountID uuid.UUID, upload *MediaUpload) (*ProfileView, error)
	UploadBusinessLogo(ctx context.Context, accountID uuid.UUID, upload *MediaUpload) (*ProfileView, error)
}
