package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"talk/config"
	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/domain/service"
	"talk/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	talkIDs     *talkIDAssigner
	otps        *otpIssuer
	mail        *mailDispatcher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	TalkIDs     service.TalkIDGenerator
	OTPCodes    service.OTPCodeGenerator
	Publisher   service.MailPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		talkIDs:     &talkIDAssigner{generator: params.TalkIDs},
		otps:        newOTPIssuer(params.OTPCodes, otpTTL(params.Config)),
		mail:        newMailDispatcher(params.Publisher, params.Logger),
		logger:      params.Logger,
	}
}

func otpTTL(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.OTP != nil {
		return cfg.OTP.TTL
	}

	return entity.OTPTTL
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an unverified account, assigns its talk_id when both names
// are given and issues the first verification code, all in one transaction.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input != nil {
		normalized := *input
		normalized.Email = entity.NormalizeEmail(input.Email)
		input = &normalized
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	role, ok := entity.ParseRole(input.Role)
	if !ok {
		return nil, domainerrors.ErrInvalidRole.WithDetails("unknown role " + input.Role)
	}

	passwordHash, err := srv.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := entity.NewAccount(input.Email)
	account.PasswordHash = passwordHash
	account.FirstName = strings.TrimSpace(input.FirstName)
	account.LastName = strings.TrimSpace(input.LastName)
	account.Role = role
	account.University = input.University
	account.RegistrationNumber = input.RegistrationNumber
	account.State = input.State
	account.Policy = input.Policy
	account.MarketingEmails = input.MarketingEmails
	if input.Gender != "" {
		account.Gender = entity.Gender(input.Gender)
	}
	if input.Level != "" {
		account.Level = entity.Level(input.Level)
	}

	return srv.createWithOTP(ctx, account)
}

// ImportAccount creates an account that already owns a talk_id elsewhere.
func (srv *accountService) ImportAccount(ctx context.Context, input *usecase.ImportAccountInput) (*usecase.RegisterOutput, error) {
	if input != nil {
		normalized := *input
		normalized.Email = entity.NormalizeEmail(input.Email)
		input = &normalized
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	talkID, ok := entity.ParseTalkID(input.TalkID)
	if !ok {
		return nil, domainerrors.ErrInvalidTalkID.WithDetails(input.TalkID)
	}

	role, ok := entity.ParseRole(input.Role)
	if !ok {
		return nil, domainerrors.ErrInvalidRole.WithDetails("unknown role " + input.Role)
	}

	passwordHash, err := srv.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := entity.NewAccount(input.Email)
	account.PasswordHash = passwordHash
	account.FirstName = strings.TrimSpace(input.FirstName)
	account.LastName = strings.TrimSpace(input.LastName)
	account.TalkID = talkID
	account.Role = role
	account.EmailVerified = input.EmailVerified

	return srv.createWithOTP(ctx, account)
}

func (srv *accountService) hashPassword(password string) (string, error) {
	if err := srv.hasher.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	hash, err := srv.hasher.Hash(password)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return hash, nil
}

func (srv *accountService) createWithOTP(ctx context.Context, account *entity.Account) (*usecase.RegisterOutput, error) {
	logger := srv.log(ctx)
	logger.Info("Creating account", slog.Any("role", account.Role))

	var otp *entity.OneTimePassword
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()
		if err := srv.talkIDs.persist(ctx, logger, account, accountRepo.Create); err != nil {
			return translateRepoError(err, "failed to create account")
		}

		var err error
		otp, err = srv.otps.issue(ctx, repoFactory.OTPRepo(), account)

		return err
	})
	if err != nil {
		logger.Warn("Account creation failed", slog.Any("error", err))

		return nil, err
	}

	output := &usecase.RegisterOutput{Account: account}
	if !account.EmailVerified {
		msg := verificationMessage(account, otp.Code, srv.otps.ttl)
		output.Warnings, output.OTPDispatched = collect(output.Warnings,
			srv.mail.dispatch(ctx, entity.MailKindVerification, account, msg))
	}

	logger.Info("Account created",
		slog.String("accountID", account.ID.String()),
		slog.String("talkID", account.TalkID.String()),
		slog.Bool("otpDispatched", output.OTPDispatched),
	)

	return output, nil
}

// SetRole selects the account's role. Sub-profiles are created separately.
func (srv *accountService) SetRole(ctx context.Context, accountID uuid.UUID, roleText string) (*entity.Account, error) {
	role, ok := entity.ParseRole(roleText)
	if !ok || !role.IsSelectable() {
		return nil, domainerrors.ErrInvalidRole.WithDetails("got " + roleText)
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		var err error
		account, err = accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return translateRepoError(err, "failed to load account")
		}

		if account.Role == role {
			return nil
		}
		if existing := account.ProfileRole(); existing != entity.RoleNone && existing != role {
			return domainerrors.ErrRoleLocked.WithDetails("account already has a " + existing.String() + " profile")
		}

		account.Role = role

		return translateRepoError(
			srv.talkIDs.persist(ctx, srv.log(ctx), account, accountRepo.Update),
			"failed to update role",
		)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Role set", slog.String("accountID", accountID.String()), slog.Any("role", role))

	return account, nil
}

// UpdateAccount applies a patch. A new email address resets verification,
// burns the codes sent to the old one and sends a fresh code.
func (srv *accountService) UpdateAccount(ctx context.Context, accountID uuid.UUID, input *usecase.UpdateAccountInput) (*usecase.UpdateAccountOutput, error) {
	if input != nil && input.Email != nil {
		normalized := *input
		email := entity.NormalizeEmail(*input.Email)
		normalized.Email = &email
		input = &normalized
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var (
		account      *entity.Account
		otp          *entity.OneTimePassword
		emailChanged bool
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		var err error
		account, err = accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return translateRepoError(err, "failed to load account")
		}

		emailChanged = applyAccountPatch(account, input)

		if err := srv.talkIDs.persist(ctx, srv.log(ctx), account, accountRepo.Update); err != nil {
			return translateRepoError(err, "failed to update account")
		}

		if !emailChanged {
			return nil
		}

		// Codes mailed to the previous address must not verify the new one.
		otpRepo := repoFactory.OTPRepo()
		if _, err := otpRepo.InvalidateForAccount(ctx, account.ID); err != nil {
			return translateRepoError(err, "failed to invalidate previous codes")
		}
		otp, err = srv.otps.issue(ctx, otpRepo, account)

		return err
	})
	if err != nil {
		return nil, err
	}

	output := &usecase.UpdateAccountOutput{Account: account}
	if emailChanged {
		msg := verificationMessage(account, otp.Code, srv.otps.ttl)
		output.Warnings, output.OTPDispatched = collect(output.Warnings,
			srv.mail.dispatch(ctx, entity.MailKindVerification, account, msg))
	}

	return output, nil
}

// applyAccountPatch copies the set fields of input onto account and reports
// whether the email address changed.
func applyAccountPatch(account *entity.Account, input *usecase.UpdateAccountInput) bool {
	if input.FirstName != nil {
		account.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		account.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Gender != nil {
		account.Gender = entity.Gender(*input.Gender)
	}
	if input.University != nil {
		account.University = *input.University
	}
	if input.Level != nil {
		account.Level = entity.Level(*input.Level)
	}
	if input.RegistrationNumber != nil {
		account.RegistrationNumber = *input.RegistrationNumber
	}
	if input.State != nil {
		account.State = *input.State
	}
	if input.Availability != nil {
		account.Availability = entity.Availability(*input.Availability)
	}
	if input.MarketingEmails != nil {
		account.MarketingEmails = *input.MarketingEmails
	}

	if input.Email == nil {
		return false
	}
	email := entity.NormalizeEmail(*input.Email)
	if email == account.Email {
		return false
	}
	account.Email = email
	account.EmailVerified = false

	return true
}

// GetAccount loads an account with its sub-profile.
func (srv *accountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, translateRepoError(err, "failed to load account")
	}

	return account, nil
}
