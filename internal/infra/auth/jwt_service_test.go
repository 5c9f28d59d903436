package auth

import (
	"testing"
	"time"

	"talk/config"
	"talk/internal/domain/entity"
	"talk/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "test_access_secret_key_very_long_for_testing",
			Refresh: "test_refresh_secret_key_very_long_for_testing",
		},
	}
}

func newTestSubject() service.TokenSubject {
	return service.TokenSubject{
		AccountID: uuid.New(),
		Email:     "ada@example.com",
		Role:      entity.RoleIndividual,
	}
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	subject := newTestSubject()

	accessToken, refreshToken, err := jwtService.GenerateTokens(subject)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateToken(accessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, subject.AccountID, accessClaims.AccountID)
	assert.Equal(t, subject.Email, accessClaims.Email)
	assert.Equal(t, entity.RoleIndividual, accessClaims.Role)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)
	assert.Equal(t, subject.AccountID.String(), accessClaims.Subject)

	refreshClaims, err := jwtService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, subject.AccountID, refreshClaims.AccountID)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format", service.TokenTypeAccess)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))
	assert.Contains(t, err.Error(), "failed to parse token structure")
}

func TestJWTService_RejectsWrongTypeAndSecret(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(newTestSubject())
	require.NoError(t, err)

	// Refresh tokens are signed with their own secret.
	_, err = jwtService.ValidateToken(refreshToken, service.TokenTypeAccess)
	assert.True(t, errors.Is(err, service.ErrTokenMalformed))

	// Access and reset share a secret but not a type.
	_, err = jwtService.ValidateToken(accessToken, service.TokenTypeReset)
	assert.True(t, errors.Is(err, service.ErrTokenWrongType))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	tokenSvc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)
	svc := tokenSvc.(*jwtService)

	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }
	resetToken, err := svc.GenerateResetToken(newTestSubject())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(resetToken, service.TokenTypeReset)
	assert.True(t, errors.Is(err, service.ErrTokenExpired))
}

func TestJWTService_TokensAreDistinctWithinOneSecond(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	subject := newTestSubject()
	_, first, err := jwtService.GenerateTokens(subject)
	require.NoError(t, err)
	_, second, err := jwtService.GenerateTokens(subject)
	require.NoError(t, err)

	assert.NotEqual(t, jwtService.HashToken(first), jwtService.HashToken(second))
	assert.Len(t, jwtService.HashToken(first), 64)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	jwtService, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_Durations(t *testing.T) {
	jwtService, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, jwtService.GetAccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, jwtService.GetRefreshTokenDuration())

	cfg := newTestJWTConfig()
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: 5 * time.Minute, RefreshTokenTTL: time.Hour}
	jwtService, err = NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, jwtService.GetAccessTokenDuration())
	assert.Equal(t, time.Hour, jwtService.GetRefreshTokenDuration())
}
