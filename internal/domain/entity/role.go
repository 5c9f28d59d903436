// Package entity contains the core business objects of the project.
package entity

import "strings"

// Role selects which sub-profile applies to an account.
type Role string

const (
	// RoleNone is the role of an account that has not chosen yet.
	RoleNone Role = "none"
	// RoleIndividual indicates a student or regular member.
	RoleIndividual Role = "individual"
	// RoleServiceProvider indicates a business offering services.
	RoleServiceProvider Role = "service_provider"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleNone, RoleIndividual, RoleServiceProvider:
		return true
	default:
		return false
	}
}

// IsSelectable reports whether an account may choose r.
func (r Role) IsSelectable() bool {
	return r == RoleIndividual || r == RoleServiceProvider
}

// ParseRole maps stored or user supplied text onto a Role. The legacy
// plural labels ("individuals", "service providers") are accepted.
// Empty input yields RoleNone.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RoleNone, true
	case "individual", "individuals":
		return RoleIndividual, true
	case "service_provider", "service provider", "service providers", "service_providers":
		return RoleServiceProvider, true
	default:
		return "", false
	}
}
