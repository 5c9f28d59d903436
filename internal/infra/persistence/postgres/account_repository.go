package postgres

import (
	"context"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/errors"
	"talk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves an account by ID with whichever sub-profile exists.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves an account by its normalized email.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (repo *accountRepository) findOne(ctx context.Context, query string, arg any) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Preload("Individual").
		Preload("ServiceProvider").
		Where(query, arg).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account")
	}

	return toAccountDomain(&accountM), nil
}

// Create inserts the account row under a savepoint.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate account id")
		}
		account.ID = id
	}

	accountM := fromAccountDomain(account)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(accountM).Error
	})
	if err != nil {
		return accountWriteError(err, "failed to create account")
	}

	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update saves every account column under a savepoint.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	var rows int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(accountM).
			Select("*").
			Omit(clause.Associations, "id", "created_at").
			Updates(accountM)
		rows = result.RowsAffected

		return result.Error
	})
	if err != nil {
		return accountWriteError(err, "failed to update account")
	}
	if rows == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

func accountWriteError(err error, details string) error {
	switch uniqueViolation(err) {
	case "":
		return domainerrors.NewDatabaseExecuteError(err, details)
	case indexAccountTalkID:
		return errors.Wrap(repository.ErrDuplicateTalkID, details)
	default:
		// The email index is the only other unique constraint on accounts.
		return errors.Wrap(repository.ErrDuplicateEmail, details)
	}
}

func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	account := &entity.Account{
		ID:                 data.ID,
		Email:              data.Email,
		PasswordHash:       data.PasswordHash,
		FirstName:          data.FirstName,
		LastName:           data.LastName,
		Role:               entity.Role(data.Role),
		Gender:             entity.Gender(data.Gender),
		University:         data.University,
		Level:              entity.Level(data.Level),
		RegistrationNumber: data.RegistrationNumber,
		State:              data.State,
		Policy:             data.Policy,
		Availability:       entity.Availability(data.Availability),
		EmailVerified:      data.EmailVerified,
		MarketingEmails:    data.MarketingEmails,
		Individual:         toIndividualDomain(data.Individual),
		ServiceProvider:    toServiceProviderDomain(data.ServiceProvider),
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
	if data.TalkID != nil {
		account.TalkID = entity.TalkID(*data.TalkID)
	}

	return account
}

func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	accountM := &model.AccountModel{
		ID:                 data.ID,
		Email:              entity.NormalizeEmail(data.Email),
		PasswordHash:       data.PasswordHash,
		FirstName:          data.FirstName,
		LastName:           data.LastName,
		Role:               string(data.Role),
		Gender:             string(data.Gender),
		University:         data.University,
		Level:              string(data.Level),
		RegistrationNumber: data.RegistrationNumber,
		State:              data.State,
		Policy:             data.Policy,
		Availability:       string(data.Availability),
		EmailVerified:      data.EmailVerified,
		MarketingEmails:    data.MarketingEmails,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
	// NULL keeps accounts without a talk_id out of the unique index.
	if data.TalkID != "" {
		talkID := data.TalkID.String()
		accountM.TalkID = &talkID
	}

	return accountM
}
