package impl

import (
	"context"
	"log/slog"
	"time"

	"talk/config"
	deliverycontext "talk/internal/delivery/context"
	"talk/internal/domain/repository"
	"talk/internal/usecase"
)

const defaultOTPRetention = 24 * time.Hour

// maintenanceService implements the MaintenanceUsecase interface.
type maintenanceService struct {
	txManager    repository.TransactionManager
	otpRetention time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// NewMaintenanceService is the constructor for maintenanceService.
func NewMaintenanceService(txManager repository.TransactionManager, cfg *config.Config, logger *slog.Logger) usecase.MaintenanceUsecase {
	retention := defaultOTPRetention
	if cfg != nil && cfg.OTP != nil && cfg.OTP.Retention > 0 {
		retention = cfg.OTP.Retention
	}

	return &maintenanceService{
		txManager:    txManager,
		otpRetention: retention,
		now:          time.Now,
		logger:       logger,
	}
}

// PurgeExpired removes codes that expired more than the retention window ago
// and refresh tokens that are past their expiry.
func (srv *maintenanceService) PurgeExpired(ctx context.Context) (*usecase.PurgeResult, error) {
	now := srv.now()
	result := &usecase.PurgeResult{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		result.OTPs, err = repoFactory.OTPRepo().DeleteExpiredBefore(ctx, now.Add(-srv.otpRetention))
		if err != nil {
			return translateRepoError(err, "failed to purge otps")
		}

		result.RefreshTokens, err = repoFactory.RefreshTokenRepo().DeleteExpired(ctx, now)

		return translateRepoError(err, "failed to purge refresh tokens")
	})
	if err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Expired rows purged",
		slog.Int64("otps", result.OTPs),
		slog.Int64("refreshTokens", result.RefreshTokens),
	)

	return result, nil
}
