package app

import (
	"testing"

	"talk/internal/delivery/worker/handler"
	"talk/internal/usecase"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModule_GraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Provide(handler.NewPushHandler, handler.NewTaskHandler),
		fx.Invoke(func(
			usecase.AccountUsecase,
			usecase.VerificationUsecase,
			usecase.SessionUsecase,
			usecase.ProfileUsecase,
			usecase.MaintenanceUsecase,
			usecase.MailDeliveryUsecase,
			*handler.PushHandler,
			*handler.TaskHandler,
		) {
		}),
	)
	require.NoError(t, err)
}
