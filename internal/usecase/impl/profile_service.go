package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/domain/service"
	"talk/internal/errors"
	"talk/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

//nolint:gochecknoglobals
var mediaExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	storage     service.MediaStorage
	composer    usecase.ProfileComposer
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Storage     service.MediaStorage
	Composer    usecase.ProfileComposer
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		storage:     params.Storage,
		composer:    params.Composer,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the full view of an account.
func (srv *profileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*usecase.ProfileView, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, translateRepoError(err, "failed to load account")
	}

	return srv.composer.Compose(ctx, account), nil
}

// GetPublicProfile returns the view shown to other members.
func (srv *profileService) GetPublicProfile(ctx context.Context, accountID uuid.UUID) (*usecase.ProfileView, error) {
	view, err := srv.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	view.Email = ""
	view.RegistrationNumber = ""

	return view, nil
}

func (srv *profileService) CreateIndividualProfile(ctx context.Context, accountID uuid.UUID, input *usecase.IndividualProfileInput) (*usecase.ProfileView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return srv.mutate(ctx, accountID, entity.RoleIndividual, func(repo repository.RoleProfileRepository, account *entity.Account) error {
		profile := &entity.Individual{
			AccountID:   account.ID,
			PhoneNumber: input.PhoneNumber,
			DateOfBirth: dob,
			Interests:   input.Interests,
			Bio:         input.Bio,
		}
		if err := repo.CreateIndividual(ctx, profile); err != nil {
			return translateRepoError(err, "failed to create individual profile")
		}
		account.Individual = profile

		return nil
	})
}

func (srv *profileService) UpdateIndividualProfile(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateIndividualProfileInput) (*usecase.ProfileView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return srv.mutate(ctx, accountID, entity.RoleIndividual, func(repo repository.RoleProfileRepository, account *entity.Account) error {
		profile := account.Individual
		if profile == nil {
			return domainerrors.ErrProfileNotFound
		}

		if input.PhoneNumber != nil {
			profile.PhoneNumber = *input.PhoneNumber
		}
		if input.DateOfBirth != nil {
			dob, err := parseDate(*input.DateOfBirth)
			if err != nil {
				return err
			}
			profile.DateOfBirth = dob
		}
		if input.Interests != nil {
			profile.Interests = input.Interests
		}
		if input.Bio != nil {
			profile.Bio = *input.Bio
		}

		return translateRepoError(repo.UpdateIndividual(ctx, profile), "failed to update individual profile")
	})
}

func (srv *profileService) CreateServiceProviderProfile(ctx context.Context, accountID uuid.UUID, input *usecase.ServiceProviderProfileInput) (*usecase.ProfileView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return srv.mutate(ctx, accountID, entity.RoleServiceProvider, func(repo repository.RoleProfileRepository, account *entity.Account) error {
		profile := &entity.ServiceProvider{
			AccountID:     account.ID,
			Bio:           input.Bio,
			BusinessName:  input.BusinessName,
			BusinessEmail: entity.NormalizeEmail(input.BusinessEmail),
			BusinessTel:   input.BusinessTel,
			BusinessType:  input.BusinessType,
			Description:   input.Description,
			City:          input.City,
			Address:       input.Address,
		}
		if err := repo.CreateServiceProvider(ctx, profile); err != nil {
			return translateRepoError(err, "failed to create service provider profile")
		}
		account.ServiceProvider = profile

		return nil
	})
}

func (srv *profileService) UpdateServiceProviderProfile(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateServiceProviderProfileInput) (*usecase.ProfileView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	return srv.mutate(ctx, accountID, entity.RoleServiceProvider, func(repo repository.RoleProfileRepository, account *entity.Account) error {
		profile := account.ServiceProvider
		if profile == nil {
			return domainerrors.ErrProfileNotFound
		}

		if input.BusinessName != nil {
			profile.BusinessName = *input.BusinessName
		}
		if input.BusinessEmail != nil {
			profile.BusinessEmail = entity.NormalizeEmail(*input.BusinessEmail)
		}
		if input.BusinessTel != nil {
			profile.BusinessTel = *input.BusinessTel
		}
		if input.BusinessType != nil {
			profile.BusinessType = *input.BusinessType
		}
		if input.Description != nil {
			profile.Description = *input.Description
		}
		if input.Bio != nil {
			profile.Bio = *input.Bio
		}
		if input.City != nil {
			profile.City = *input.City
		}
		if input.Address != nil && *input.Address != profile.Address {
			profile.Address = *input.Address
			profile.AddressVerified = false
		}

		return translateRepoError(repo.UpdateServiceProvider(ctx, profile), "failed to update service provider profile")
	})
}

// UploadProfilePhoto stores a new photo for an individual and drops the old one.
func (srv *profileService) UploadProfilePhoto(ctx context.Context, accountID uuid.UUID, upload *usecase.MediaUpload) (*usecase.ProfileView, error) {
	return srv.uploadMedia(ctx, accountID, upload, entity.RoleIndividual, "photos",
		func(repo repository.RoleProfileRepository, account *entity.Account, key string) (string, error) {
			profile := account.Individual
			if profile == nil {
				return "", domainerrors.ErrProfileNotFound
			}

			old := profile.PhotoKey
			profile.PhotoKey = key

			return old, translateRepoError(repo.UpdateIndividual(ctx, profile), "failed to save profile photo")
		})
}

// UploadBusinessLogo stores a new logo for a service provider and drops the old one.
func (srv *profileService) UploadBusinessLogo(ctx context.Context, accountID uuid.UUID, upload *usecase.MediaUpload) (*usecase.ProfileView, error) {
	return srv.uploadMedia(ctx, accountID, upload, entity.RoleServiceProvider, "logos",
		func(repo repository.RoleProfileRepository, account *entity.Account, key string) (string, error) {
			profile := account.ServiceProvider
			if profile == nil {
				return "", domainerrors.ErrProfileNotFound
			}

			old := profile.LogoKey
			profile.LogoKey = key

			return old, translateRepoError(repo.UpdateServiceProvider(ctx, profile), "failed to save business logo")
		})
}

func (srv *profileService) uploadMedia(
	ctx context.Context,
	accountID uuid.UUID,
	upload *usecase.MediaUpload,
	role entity.Role,
	folder string,
	save func(repository.RoleProfileRepository, *entity.Account, string) (string, error),
) (*usecase.ProfileView, error) {
	if err := validateInput(upload); err != nil {
		return nil, err
	}

	// Fail fast before writing bytes that would be orphaned.
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, translateRepoError(err, "failed to load account")
	}
	if err := checkRole(account, role); err != nil {
		return nil, err
	}

	key := mediaKey(folder, accountID, upload)
	if err := srv.storage.Put(ctx, key, upload.ContentType, upload.Data); err != nil {
		return nil, errors.Wrap(err, "failed to store media")
	}

	var oldKey string
	view, err := srv.mutate(ctx, accountID, role, func(repo repository.RoleProfileRepository, account *entity.Account) error {
		var err error
		oldKey, err = save(repo, account, key)

		return err
	})
	if err != nil {
		srv.deleteMedia(ctx, key)

		return nil, err
	}

	if oldKey != "" {
		srv.deleteMedia(ctx, oldKey)
	}

	return view, nil
}

func (srv *profileService) deleteMedia(ctx context.Context, key string) {
	if err := srv.storage.Delete(ctx, key); err != nil {
		srv.log(ctx).Warn("Failed to delete media", slog.String("key", key), slog.Any("error", err))
	}
}

// mutate loads the account in a transaction, checks that it holds role and
// runs fn. The composed view reflects fn's changes.
func (srv *profileService) mutate(
	ctx context.Context,
	accountID uuid.UUID,
	role entity.Role,
	fn func(repository.RoleProfileRepository, *entity.Account) error,
) (*usecase.ProfileView, error) {
	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		account, err = repoFactory.AccountRepo().FindByID(ctx, accountID)
		if err != nil {
			return translateRepoError(err, "failed to load account")
		}
		if err := checkRole(account, role); err != nil {
			return err
		}

		return fn(repoFactory.ProfileRepo(), account)
	})
	if err != nil {
		return nil, err
	}

	return srv.composer.Compose(ctx, account), nil
}

func checkRole(account *entity.Account, role entity.Role) error {
	if account.Role != role {
		return domainerrors.ErrRoleMismatch.WithDetails(
			fmt.Sprintf("account role is %s, %s required", account.Role, role))
	}

	return nil
}

func mediaKey(folder string, accountID uuid.UUID, upload *usecase.MediaUpload) string {
	ext, ok := mediaExtensions[upload.ContentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}

	return fmt.Sprintf("%s/%s/%s%s", folder, accountID, uuid.NewString(), ext)
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domainerrors.ErrValidationFailed.WithDetails("date must use the YYYY-MM-DD layout")
	}

	return t, nil
}
