package postgres

import (
	"context"
	"time"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/errors"
	"talk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// otpRepository implements the domain.OTPRepository interface using GORM.
type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository is the constructor for otpRepository.
func NewOTPRepository(db *gorm.DB) repository.OTPRepository {
	return &otpRepository{db: db}
}

// Create persists a new code.
func (repo *otpRepository) Create(ctx context.Context, otp *entity.OneTimePassword) error {
	if otp.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate otp id")
		}
		otp.ID = id
	}

	otpM := &model.OneTimePasswordModel{
		ID:        otp.ID,
		AccountID: otp.AccountID,
		Code:      otp.Code,
		ExpiresAt: otp.ExpiresAt,
		IsUsed:    otp.IsUsed,
		CreatedAt: otp.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(otpM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAccountNotFound, "failed to create otp")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create otp")
	}

	otp.CreatedAt = otpM.CreatedAt

	return nil
}

// FindLatestByCode returns the newest row carrying code and holds a row lock on it.
// UUIDv7 ids break ties between rows created in the same clock tick.
func (repo *otpRepository) FindLatestByCode(ctx context.Context, code string) (*entity.OneTimePassword, error) {
	var otpM model.OneTimePasswordModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		Order("created_at DESC").
		Order("id DESC").
		First(&otpM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOTPNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find otp")
	}

	return &entity.OneTimePassword{
		ID:        otpM.ID,
		AccountID: otpM.AccountID,
		Code:      otpM.Code,
		ExpiresAt: otpM.ExpiresAt,
		IsUsed:    otpM.IsUsed,
		CreatedAt: otpM.CreatedAt,
	}, nil
}

// MarkUsed flips is_used on an unused code. A code that is missing or
// already used yields ErrOTPNotFound.
func (repo *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OneTimePasswordModel{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark otp used")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOTPNotFound
	}

	return nil
}

// InvalidateForAccount burns every outstanding code of accountID.
func (repo *otpRepository) InvalidateForAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.OneTimePasswordModel{}).
		Where("account_id = ? AND is_used = ?", accountID, false).
		Update("is_used", true)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to invalidate otps")
	}

	return result.RowsAffected, nil
}

// DeleteExpiredBefore removes codes that expired before cutoff.
func (repo *otpRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.OneTimePasswordModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete expired otps")
	}

	return result.RowsAffected, nil
}
