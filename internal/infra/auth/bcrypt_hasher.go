// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"

	"talk/config"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy *config.PasswordStrengthConfig
}

// NewBcryptHasher builds the hasher from the auth and password strength sections.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	var policy *config.PasswordStrengthConfig
	if cfg != nil {
		policy = cfg.PasswordStrength
	}

	return NewBcryptHasherWithPolicy(cost, policy)
}

// NewBcryptHasherWithPolicy builds a hasher with an explicit cost and policy.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost and a nil
// policy means config.DefaultPasswordStrength.
func NewBcryptHasherWithPolicy(cost int, policy *config.PasswordStrengthConfig) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if policy == nil {
		policy = config.DefaultPasswordStrength()
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash failed")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength reports the first policy rule password breaks.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	p := h.policy

	if p.MinLength > 0 && len([]rune(password)) < p.MinLength {
		return policyError(fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}
	if p.MaxLength > 0 && len(password) > p.MaxLength {
		return policyError(fmt.Sprintf("password must be at most %d characters long", p.MaxLength))
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case p.RequireLowercase && !hasLower:
		return policyError("password must contain at least one lowercase letter")
	case p.RequireUppercase && !hasUpper:
		return policyError("password must contain at least one uppercase letter")
	case p.RequireNumbers && !hasNumber:
		return policyError("password must contain at least one number")
	case p.RequireSpecial && !hasSpecial:
		return policyError("password must contain at least one special character")
	}

	lowered := strings.ToLower(password)
	for _, word := range p.ForbiddenWords {
		if word != "" && strings.Contains(lowered, strings.ToLower(word)) {
			return policyError("password contains forbidden words")
		}
	}

	return nil
}

func policyError(details string) error {
	return domainerrors.ErrPasswordPolicy.WithDetails(details)
}
