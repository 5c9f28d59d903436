// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"talk/internal/domain/entity"
	"talk/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence. The duplicate errors are
// raised from unique index violations at write time, never from a pre-check.
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrDuplicateEmail         = errors.New("duplicate account email")
	ErrDuplicateTalkID        = errors.New("duplicate talk_id")
	ErrDuplicateBusinessEmail = errors.New("duplicate business email")
)

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// FindByID retrieves an account by ID together with whichever sub-profile exists.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves an account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create inserts the account row. Sub-profiles are not written.
	// The insert runs under a savepoint so that a unique violation leaves an
	// enclosing transaction usable for a retry.
	Create(ctx context.Context, account *entity.Account) error

	// Update saves the account columns. Sub-profiles are not written.
	// Same savepoint semantics as Create.
	Update(ctx context.Context, account *entity.Account) error
}
