package service

import (
	"time"

	"talk/internal/domain/entity"
	"talk/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes the purpose a token was signed for.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeReset   TokenType = "reset"
)

// Token validation failures. ValidateToken wraps one of these.
var (
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenWrongType = errors.New("token type mismatch")
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	AccountID uuid.UUID   `json:"user_id"`
	Email     string      `json:"email,omitempty"`
	Role      entity.Role `json:"role,omitempty"`
	Type      TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// TokenSubject is the identity a token is issued for.
type TokenSubject struct {
	AccountID uuid.UUID
	Email     string
	Role      entity.Role
}

// SubjectOf builds the token subject of an account.
func SubjectOf(account *entity.Account) TokenSubject {
	return TokenSubject{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}
}

// TokenService defines the interface for generating and validating JWTs.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for subject.
	GenerateTokens(subject TokenSubject) (accessToken string, refreshToken string, err error)

	// GenerateAccessToken mints only an access token.
	GenerateAccessToken(subject TokenSubject) (string, error)

	// GenerateResetToken mints a short-lived password reset token.
	GenerateResetToken(subject TokenSubject) (string, error)

	// ValidateToken checks signature, expiry and that the token is of tokenType.
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)

	// HashToken returns the storage hash of a raw token.
	HashToken(tokenString string) string

	// GetAccessTokenDuration returns the configured lifetime of access tokens.
	GetAccessTokenDuration() time.Duration

	// GetRefreshTokenDuration returns the configured lifetime of refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
