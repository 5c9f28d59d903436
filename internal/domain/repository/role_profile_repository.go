package repository

import (
	"context"

	"talk/internal/domain/entity"
	"talk/internal/errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when the requested sub-profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when an account already owns the sub-profile being created.
var ErrProfileExists = errors.New("profile already exists")

// RoleProfileRepository persists the role-specific sub-profiles.
type RoleProfileRepository interface {
	FindIndividual(ctx context.Context, accountID uuid.UUID) (*entity.Individual, error)
	CreateIndividual(ctx context.Context, profile *entity.Individual) error
	UpdateIndividual(ctx context.Context, profile *entity.Individual) error

	FindServiceProvider(ctx context.Context, accountID uuid.UUID) (*entity.ServiceProvider, error)
	// CreateServiceProvider returns ErrDuplicateBusinessEmail when the business email is taken.
	CreateServiceProvider(ctx context.Context, profile *entity.ServiceProvider) error
	UpdateServiceProvider(ctx context.Context, profile *entity.ServiceProvider) error
}
