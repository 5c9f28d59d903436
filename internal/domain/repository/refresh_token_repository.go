package repository

import (
	"context"
	"time"

	"talk/internal/domain/entity"
	"talk/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a refresh token is not found.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenExpired is returned when a refresh token has expired.
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
)

// RefreshTokenRepository stores hashed refresh tokens so sessions can be revoked.
type RefreshTokenRepository interface {
	// Create persists a new refresh token, representing a session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByHash retrieves an unexpired refresh token by its hash.
	FindByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteByHash ends one session. Deleting a missing hash is not an error.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByAccountID ends every session of an account.
	DeleteByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)

	// DeleteExpired removes tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
