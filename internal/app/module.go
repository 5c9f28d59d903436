// Package app bundles the fx providers of the Talk identity core so every
// executable wires the same graph.
package app

import (
	"context"

	"talk/config"
	"talk/internal/infra/auth"
	"talk/internal/infra/cache"
	"talk/internal/infra/identity"
	logs "talk/internal/infra/log"
	"talk/internal/infra/mail"
	"talk/internal/infra/persistence/postgres"
	"talk/internal/infra/pubsub"
	"talk/internal/infra/storage"
	"talk/internal/usecase/impl"

	"go.uber.org/fx"
)

// Module provides config, infra, repositories, domain services and usecases.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	injectInfra(),
	injectRepo(),
	injectService(),
	injectUsecase(),
)

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			cache.NewRedisClient,
			storage.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewRoleProfileRepository,
			postgres.NewOTPRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			identity.NewTalkIDGenerator,
			identity.NewOTPCodeGenerator,
			cache.NewResendThrottle,
			mail.NewSMTPMailer,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewProfileComposer,
			impl.NewAccountService,
			impl.NewVerificationService,
			impl.NewSessionService,
			impl.NewProfileService,
			impl.NewMaintenanceService,
			impl.NewMailDeliveryService,
		),
	)
}
