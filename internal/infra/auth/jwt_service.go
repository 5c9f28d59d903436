package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"talk/config"
	"talk/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultResetTTL   = 15 * time.Minute
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
// Access and reset tokens share the access secret; the type claim keeps them apart.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	svc := &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
		resetTTL:      defaultResetTTL,
		now:           time.Now,
	}

	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			svc.accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			svc.refreshTTL = cfg.Auth.RefreshTokenTTL
		}
		if cfg.Auth.ResetTokenTTL > 0 {
			svc.resetTTL = cfg.Auth.ResetTokenTTL
		}
	}

	return svc, nil
}

// GenerateTokens creates a new access token and refresh token for subject.
func (s *jwtService) GenerateTokens(subject service.TokenSubject) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(subject, service.TokenTypeAccess, s.accessTTL, s.accessSecret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.generateToken(subject, service.TokenTypeRefresh, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken mints only an access token.
func (s *jwtService) GenerateAccessToken(subject service.TokenSubject) (string, error) {
	return s.generateToken(subject, service.TokenTypeAccess, s.accessTTL, s.accessSecret)
}

// GenerateResetToken mints a password reset token.
func (s *jwtService) GenerateResetToken(subject service.TokenSubject) (string, error) {
	return s.generateToken(subject, service.TokenTypeReset, s.resetTTL, s.accessSecret)
}

// ValidateToken parses tokenString and checks it was issued as tokenType.
func (s *jwtService) ValidateToken(tokenString string, tokenType service.TokenType) (*service.Claims, error) {
	secret := s.accessSecret
	if tokenType == service.TokenTypeRefresh {
		secret = s.refreshSecret
	}

	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}

			return secret, nil
		},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.Wrap(service.ErrTokenExpired, "token expired")
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.Wrap(service.ErrTokenMalformed, "failed to parse token structure")
		default:
			return nil, errors.Wrapf(service.ErrTokenMalformed, "failed to validate token: %v", err)
		}
	}

	if claims.Type != tokenType {
		return nil, errors.Wrapf(service.ErrTokenWrongType, "expected %s token, got %q", tokenType, claims.Type)
	}
	if claims.AccountID == uuid.Nil {
		return nil, errors.Wrap(service.ErrTokenMalformed, "token carries no account")
	}

	return claims, nil
}

// HashToken returns the hex SHA-256 of a raw token for storage.
func (s *jwtService) HashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))

	return hex.EncodeToString(sum[:])
}

// GetAccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) GetAccessTokenDuration() time.Duration {
	return s.accessTTL
}

// GetRefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) generateToken(subject service.TokenSubject, tokenType service.TokenType, ttl time.Duration, secret []byte) (string, error) {
	now := s.now()
	claims := service.Claims{
		AccountID: subject.AccountID,
		Email:     subject.Email,
		Role:      subject.Role,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.AccountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// A unique jti keeps two tokens minted in the same second distinct.
			ID: uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign %s token", tokenType)
	}

	return signed, nil
}
