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
	"talk/internal/errors"
	"talk/internal/usecase"

	"go.uber.org/fx"
)

const defaultResendWindow = time.Minute

// verificationService implements the VerificationUsecase interface.
type verificationService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	throttle     service.ResendThrottle
	otps         *otpIssuer
	mail         *mailDispatcher
	resendWindow time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// VerificationServiceParams holds dependencies for VerificationService, injected by Fx.
type VerificationServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Throttle    service.ResendThrottle
	OTPCodes    service.OTPCodeGenerator
	Publisher   service.MailPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewVerificationService is the constructor for verificationService.
func NewVerificationService(params VerificationServiceParams) usecase.VerificationUsecase {
	resendWindow := defaultResendWindow
	if params.Config != nil && params.Config.OTP != nil && params.Config.OTP.ResendWindow > 0 {
		resendWindow = params.Config.OTP.ResendWindow
	}

	return &verificationService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		throttle:     params.Throttle,
		otps:         newOTPIssuer(params.OTPCodes, otpTTL(params.Config)),
		mail:         newMailDispatcher(params.Publisher, params.Logger),
		resendWindow: resendWindow,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *verificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// VerifyOTP checks the most recent code row matching code and, when it is
// usable, marks it used and the account verified in the same transaction.
func (srv *verificationService) VerifyOTP(ctx context.Context, code string) (*entity.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("code is required")
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		otpRepo := repoFactory.OTPRepo()
		accountRepo := repoFactory.AccountRepo()

		otp, err := otpRepo.FindLatestByCode(ctx, code)
		if err != nil {
			return translateRepoError(err, "failed to load otp")
		}

		switch {
		case otp.IsUsed:
			return domainerrors.ErrOTPAlreadyUsed
		case otp.IsExpired(srv.now()):
			return domainerrors.ErrOTPExpired
		}

		if err := otpRepo.MarkUsed(ctx, otp.ID); err != nil {
			// Lost a race with a concurrent verify of the same row.
			if errors.Is(err, repository.ErrOTPNotFound) {
				return domainerrors.ErrOTPAlreadyUsed
			}

			return translateRepoError(err, "failed to mark otp used")
		}

		account, err = accountRepo.FindByID(ctx, otp.AccountID)
		if err != nil {
			return translateRepoError(err, "failed to load account")
		}

		account.EmailVerified = true

		return translateRepoError(accountRepo.Update(ctx, account), "failed to verify account")
	})
	if err != nil {
		srv.log(ctx).Info("OTP verification rejected", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Email verified", slog.String("accountID", account.ID.String()))

	return account, nil
}

// ResendOTP issues another code for an unverified account. Earlier codes are
// not invalidated.
func (srv *verificationService) ResendOTP(ctx context.Context, email string) (*usecase.ResendOutput, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, translateRepoError(err, "failed to load account")
	}
	if account.EmailVerified {
		return nil, domainerrors.ErrEmailAlreadyVerified
	}

	allowed, err := srv.throttle.Allow(ctx, account.ID.String(), srv.resendWindow)
	if err != nil {
		// An unreachable cache does not block verification.
		srv.log(ctx).Warn("Resend throttle unavailable", slog.Any("error", err))
		allowed = true
	}
	if !allowed {
		return nil, domainerrors.ErrOTPResendThrottled
	}

	var otp *entity.OneTimePassword
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		otp, err = srv.otps.issue(ctx, repoFactory.OTPRepo(), account)

		return err
	})
	if err != nil {
		if relErr := srv.throttle.Release(ctx, account.ID.String()); relErr != nil {
			srv.log(ctx).Warn("Failed to release resend slot", slog.Any("error", relErr))
		}

		return nil, err
	}

	output := &usecase.ResendOutput{}
	msg := verificationMessage(account, otp.Code, srv.otps.ttl)
	output.Warnings, output.OTPDispatched = collect(output.Warnings,
		srv.mail.dispatch(ctx, entity.MailKindVerification, account, msg))

	return output, nil
}
