package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"talk/config"
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

const defaultResetTokenTTL = 15 * time.Minute

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager            repository.TransactionManager
	accountRepo          repository.AccountRepository
	refreshTokenRepo     repository.RefreshTokenRepository
	hasher               service.PasswordHasher
	decoyHash            func() string
	tokenService         service.TokenService
	composer             usecase.ProfileComposer
	mail                 *mailDispatcher
	requireVerifiedEmail bool
	clientSiteURL        string
	resetTokenTTL        time.Duration
	now                  func() time.Time
	logger               *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	AccountRepo      repository.AccountRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Composer         usecase.ProfileComposer
	Publisher        service.MailPublisher
	Config           *config.Config
	Logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	srv := &sessionService{
		txManager:        params.TxManager,
		accountRepo:      params.AccountRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		decoyHash:        decoyHashFor(params.Hasher),
		tokenService:     params.TokenService,
		composer:         params.Composer,
		mail:             newMailDispatcher(params.Publisher, params.Logger),
		resetTokenTTL:    defaultResetTokenTTL,
		now:              time.Now,
		logger:           params.Logger,
	}

	if params.Config != nil && params.Config.Auth != nil {
		srv.requireVerifiedEmail = params.Config.Auth.RequireVerifiedEmail
		srv.clientSiteURL = params.Config.Auth.ClientSiteURL
		if params.Config.Auth.ResetTokenTTL > 0 {
			srv.resetTokenTTL = params.Config.Auth.ResetTokenTTL
		}
	}

	return srv
}

// decoyHashFor lazily hashes a throwaway password at the hasher's cost. Login
// checks against it for unknown emails so both failures take as long.
func decoyHashFor(hasher service.PasswordHasher) func() string {
	return sync.OnceValue(func() string {
		hash, err := hasher.Hash(uuid.NewString())
		if err != nil {
			return ""
		}

		return hash
	})
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords fail identically.
func (srv *sessionService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	account, err := srv.accountRepo.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.hasher.Check(input.Password, srv.decoyHash())

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, translateRepoError(err, "failed to load account")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.String("accountID", account.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if srv.requireVerifiedEmail && !account.EmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(service.SubjectOf(account))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		AccountID: account.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: srv.now().Add(srv.tokenService.GetRefreshTokenDuration()),
	})
	if err != nil {
		return nil, translateRepoError(err, "failed to store refresh token")
	}

	srv.log(ctx).Info("Login succeeded", slog.String("accountID", account.ID.String()))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
		Profile:      srv.composer.Compose(ctx, account),
	}, nil
}

// RefreshToken mints a new access token from a live, stored refresh token.
func (srv *sessionService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WithDetails(err.Error())
	}

	stored, err := srv.refreshTokenRepo.FindByHash(ctx, srv.tokenService.HashToken(refreshToken))
	if err != nil {
		if errors.IsAny(err, repository.ErrRefreshTokenNotFound, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WithDetails("session is no longer active")
		}

		return nil, translateRepoError(err, "failed to load refresh token")
	}
	if stored.AccountID != claims.AccountID {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	account, err := srv.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WithDetails("account no longer exists")
		}

		return nil, translateRepoError(err, "failed to load account")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(service.SubjectOf(account))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshOutput{
		AccessToken: accessToken,
		ExpiresIn:   int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// Logout ends the session of refreshToken. Unknown tokens are ignored.
func (srv *sessionService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("refresh token is required")
	}

	if err := srv.refreshTokenRepo.DeleteByHash(ctx, srv.tokenService.HashToken(refreshToken)); err != nil {
		return translateRepoError(err, "failed to delete refresh token")
	}

	return nil
}

// RequestPasswordReset mails a signed reset link to the account owner.
func (srv *sessionService) RequestPasswordReset(ctx context.Context, email string) (*usecase.PasswordResetOutput, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, translateRepoError(err, "failed to load account")
	}

	token, err := srv.tokenService.GenerateResetToken(service.SubjectOf(account))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate reset token")
	}

	msg := passwordResetMessage(account, passwordResetLink(srv.clientSiteURL, token), srv.resetTokenTTL)
	output := &usecase.PasswordResetOutput{}
	output.Warnings, output.Dispatched = collect(output.Warnings,
		srv.mail.dispatch(ctx, entity.MailKindPasswordReset, account, msg))

	return output, nil
}

// ResetPassword sets a new password from a reset token and ends every session.
func (srv *sessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := srv.tokenService.ValidateToken(token, service.TokenTypeReset)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return domainerrors.ErrTokenExpired
		}

		return domainerrors.ErrInvalidToken.WithDetails(err.Error())
	}

	return srv.replacePassword(ctx, claims.AccountID, newPassword, nil)
}

// ChangePassword replaces the password after checking the current one.
func (srv *sessionService) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) error {
	return srv.replacePassword(ctx, accountID, newPassword, func(account *entity.Account) error {
		if !srv.hasher.Check(oldPassword, account.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WithDetails("current password is incorrect")
		}

		return nil
	})
}

func (srv *sessionService) replacePassword(ctx context.Context, accountID uuid.UUID, newPassword string, check func(*entity.Account) error) error {
	if err := srv.hasher.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	passwordHash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	var revoked int64
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return translateRepoError(err, "failed to load account")
		}
		if check != nil {
			if err := check(account); err != nil {
				return err
			}
		}

		account.PasswordHash = passwordHash
		if err := accountRepo.Update(ctx, account); err != nil {
			return translateRepoError(err, "failed to update password")
		}

		revoked, err = repoFactory.RefreshTokenRepo().DeleteByAccountID(ctx, accountID)

		return translateRepoError(err, "failed to revoke sessions")
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Password replaced",
		slog.String("accountID", accountID.String()),
		slog.Int64("revokedSessions", revoked),
	)

	return nil
}
