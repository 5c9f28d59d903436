package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AccountModel mirrors the 'accounts' table. IDs are UUIDv7 assigned by the application.
type AccountModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email              string    `gorm:"type:varchar(254);not null;uniqueIndex:idx_accounts_email"`
	PasswordHash       string    `gorm:"type:varchar(255);not null"`
	FirstName          string    `gorm:"type:varchar(150)"`
	LastName           string    `gorm:"type:varchar(150)"`
	TalkID             *string   `gorm:"type:varchar(10);uniqueIndex:idx_accounts_talk_id"`
	Role               string    `gorm:"type:varchar(20);not null;default:none"`
	Gender             string    `gorm:"type:varchar(10);not null;default:male"`
	University         string    `gorm:"type:varchar(100)"`
	Level              string    `gorm:"type:varchar(20);not null;default:100"`
	RegistrationNumber string    `gorm:"type:varchar(100)"`
	State              string    `gorm:"type:varchar(100)"`
	Policy             bool      `gorm:"not null;default:false"`
	Availability       string    `gorm:"type:varchar(20);not null;default:available"`
	EmailVerified      bool      `gorm:"not null;default:false"`
	MarketingEmails    bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Individual      *IndividualModel      `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	ServiceProvider *ServiceProviderModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// IndividualModel mirrors the 'individual_profiles' table. AccountID references accounts.id.
type IndividualModel struct {
	AccountID   uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	PhoneNumber string                      `gorm:"type:varchar(25);not null"`
	DateOfBirth datatypes.Date              `gorm:"not null"`
	Interests   datatypes.JSONSlice[string] `gorm:"type:json"`
	Bio         string                      `gorm:"type:text"`
	PhotoKey    string                      `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (IndividualModel) TableName() string {
	return "individual_profiles"
}

// ServiceProviderModel mirrors the 'service_provider_profiles' table. AccountID references accounts.id.
type ServiceProviderModel struct {
	AccountID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Bio             string    `gorm:"type:text"`
	BusinessName    string    `gorm:"type:varchar(255);not null"`
	BusinessEmail   string    `gorm:"type:varchar(254);not null;uniqueIndex:idx_service_providers_business_email"`
	BusinessTel     string    `gorm:"type:varchar(25);not null"`
	BusinessType    string    `gorm:"type:varchar(100)"`
	Description     string    `gorm:"type:text"`
	City            string    `gorm:"type:varchar(100)"`
	Address         string    `gorm:"type:varchar(255)"`
	AddressVerified bool      `gorm:"not null;default:false"`
	LogoKey         string    `gorm:"type:varchar(512)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ServiceProviderModel) TableName() string {
	return "service_provider_profiles"
}
