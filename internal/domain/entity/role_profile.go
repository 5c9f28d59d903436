package entity

import (
	"time"

	"github.com/google/uuid"
)

// Individual holds data specific to the individual role.
type Individual struct {
	AccountID   uuid.UUID
	PhoneNumber string
	DateOfBirth time.Time
	Interests   []string
	Bio         string
	PhotoKey    string // Blob key of the profile photo, empty when none was uploaded.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceProvider holds data specific to the service provider role.
type ServiceProvider struct {
	AccountID       uuid.UUID
	Bio             string
	BusinessName    string
	BusinessEmail   string // Unique across providers, lower-cased.
	BusinessTel     string
	BusinessType    string
	Description     string
	City            string
	Address         string
	AddressVerified bool
	LogoKey         string // Blob key of the logo, empty when none was uploaded.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
