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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// roleProfileRepository implements the domain.RoleProfileRepository interface using GORM.
type roleProfileRepository struct {
	db *gorm.DB
}

// NewRoleProfileRepository is the constructor for roleProfileRepository.
func NewRoleProfileRepository(db *gorm.DB) repository.RoleProfileRepository {
	return &roleProfileRepository{db: db}
}

func (repo *roleProfileRepository) FindIndividual(ctx context.Context, accountID uuid.UUID) (*entity.Individual, error) {
	var profileM model.IndividualModel
	if err := repo.db.WithContext(ctx).Where("account_id = ?", accountID).First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find individual profile")
	}

	return toIndividualDomain(&profileM), nil
}

func (repo *roleProfileRepository) CreateIndividual(ctx context.Context, profile *entity.Individual) error {
	profileM := fromIndividualDomain(profile)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(profileM).Error
	})
	if err != nil {
		return profileWriteError(err, "failed to create individual profile")
	}

	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *roleProfileRepository) UpdateIndividual(ctx context.Context, profile *entity.Individual) error {
	profileM := fromIndividualDomain(profile)

	var rows int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(profileM).Select("*").Omit("account_id", "created_at").Updates(profileM)
		rows = result.RowsAffected

		return result.Error
	})
	if err != nil {
		return profileWriteError(err, "failed to update individual profile")
	}
	if rows == 0 {
		return repository.ErrProfileNotFound
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *roleProfileRepository) FindServiceProvider(ctx context.Context, accountID uuid.UUID) (*entity.ServiceProvider, error) {
	var profileM model.ServiceProviderModel
	if err := repo.db.WithContext(ctx).Where("account_id = ?", accountID).First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find service provider profile")
	}

	return toServiceProviderDomain(&profileM), nil
}

func (repo *roleProfileRepository) CreateServiceProvider(ctx context.Context, profile *entity.ServiceProvider) error {
	profileM := fromServiceProviderDomain(profile)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(profileM).Error
	})
	if err != nil {
		return profileWriteError(err, "failed to create service provider profile")
	}

	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *roleProfileRepository) UpdateServiceProvider(ctx context.Context, profile *entity.ServiceProvider) error {
	profileM := fromServiceProviderDomain(profile)

	var rows int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(profileM).Select("*").Omit("account_id", "created_at").Updates(profileM)
		rows = result.RowsAffected

		return result.Error
	})
	if err != nil {
		return profileWriteError(err, "failed to update service provider profile")
	}
	if rows == 0 {
		return repository.ErrProfileNotFound
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func profileWriteError(err error, details string) error {
	switch uniqueViolation(err) {
	case "":
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrAccountNotFound, details)
		}

		return domainerrors.NewDatabaseExecuteError(err, details)
	case indexBusinessEmail:
		return errors.Wrap(repository.ErrDuplicateBusinessEmail, details)
	default:
		// account_id is the primary key: one profile of each kind per account.
		return errors.Wrap(repository.ErrProfileExists, details)
	}
}

func toIndividualDomain(data *model.IndividualModel) *entity.Individual {
	if data == nil {
		return nil
	}

	return &entity.Individual{
		AccountID:   data.AccountID,
		PhoneNumber: data.PhoneNumber,
		DateOfBirth: time.Time(data.DateOfBirth),
		Interests:   append([]string{}, data.Interests...),
		Bio:         data.Bio,
		PhotoKey:    data.PhotoKey,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromIndividualDomain(data *entity.Individual) *model.IndividualModel {
	if data == nil {
		return nil
	}

	interests := datatypes.JSONSlice[string]{}
	interests = append(interests, data.Interests...)

	return &model.IndividualModel{
		AccountID:   data.AccountID,
		PhoneNumber: data.PhoneNumber,
		DateOfBirth: datatypes.Date(data.DateOfBirth),
		Interests:   interests,
		Bio:         data.Bio,
		PhotoKey:    data.PhotoKey,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toServiceProviderDomain(data *model.ServiceProviderModel) *entity.ServiceProvider {
	if data == nil {
		return nil
	}

	return &entity.ServiceProvider{
		AccountID:       data.AccountID,
		Bio:             data.Bio,
		BusinessName:    data.BusinessName,
		BusinessEmail:   data.BusinessEmail,
		BusinessTel:     data.BusinessTel,
		BusinessType:    data.BusinessType,
		Description:     data.Description,
		City:            data.City,
		Address:         data.Address,
		AddressVerified: data.AddressVerified,
		LogoKey:         data.LogoKey,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromServiceProviderDomain(data *entity.ServiceProvider) *model.ServiceProviderModel {
	if data == nil {
		return nil
	}

	return &model.ServiceProviderModel{
		AccountID:       data.AccountID,
		Bio:             data.Bio,
		BusinessName:    data.BusinessName,
		BusinessEmail:   entity.NormalizeEmail(data.BusinessEmail),
		BusinessTel:     data.BusinessTel,
		BusinessType:    data.BusinessType,
		Description:     data.Description,
		City:            data.City,
		Address:         data.Address,
		AddressVerified: data.AddressVerified,
		LogoKey:         data.LogoKey,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
