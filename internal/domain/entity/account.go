// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender of the account holder.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid checks if the Gender is a valid value.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Level is the academic level of a student.
type Level string

const (
	Level100      Level = "100"
	Level200      Level = "200"
	Level300      Level = "300"
	Level400      Level = "400"
	Level500      Level = "500"
	LevelGraduate Level = "graduate"
)

// IsValid checks if the Level is a valid value.
func (l Level) IsValid() bool {
	switch l {
	case Level100, Level200, Level300, Level400, Level500, LevelGraduate:
		return true
	default:
		return false
	}
}

// Availability is the presence status shown to other members.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

// IsValid checks if the Availability is a valid value.
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityOffline:
		return true
	default:
		return false
	}
}

// Account is the core identity of a Talk member. It owns the credential,
// the verification state and the role that selects a sub-profile.
type Account struct {
	ID                 uuid.UUID
	Email              string // Always stored lower-cased.
	PasswordHash       string
	FirstName          string
	LastName           string
	TalkID             TalkID // Empty until both names are known.
	Role               Role
	Gender             Gender
	University         string
	Level              Level
	RegistrationNumber string
	State              string
	Policy             bool // Terms of service accepted.
	Availability       Availability
	EmailVerified      bool
	MarketingEmails    bool

	// At most one of these is non-nil. Both are nil until a profile is created.
	Individual      *Individual
	ServiceProvider *ServiceProvider

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount returns an unverified account with the defaults applied.
func NewAccount(email string) *Account {
	return &Account{
		Email:        NormalizeEmail(email),
		Role:         RoleNone,
		Gender:       GenderMale,
		Level:        Level100,
		Availability: AvailabilityAvailable,
	}
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NeedsTalkID reports whether a talk_id can be assigned now: none is set
// yet and both name parts are present.
func (a *Account) NeedsTalkID() bool {
	return a.TalkID == "" &&
		strings.TrimSpace(a.FirstName) != "" &&
		strings.TrimSpace(a.LastName) != ""
}

// ProfileRole returns the role of the sub-profile that exists, or RoleNone.
func (a *Account) ProfileRole() Role {
	switch {
	case a.Individual != nil:
		return RoleIndividual
	case a.ServiceProvider != nil:
		return RoleServiceProvider
	default:
		return RoleNone
	}
}
