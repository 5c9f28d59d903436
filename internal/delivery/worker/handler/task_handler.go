package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"talk/config"
	deliverycontext "talk/internal/delivery/context"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TaskHandler runs scheduled maintenance jobs, typically hit by Cloud Scheduler.
type TaskHandler struct {
	token       string
	logger      *slog.Logger
	maintenance usecase.MaintenanceUsecase
}

// TaskHandlerParams holds dependencies for the TaskHandler
type TaskHandlerParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Maintenance usecase.MaintenanceUsecase
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(params TaskHandlerParams) *TaskHandler {
	var token string
	if params.Config.Maintenance != nil {
		token = params.Config.Maintenance.TaskToken
	}

	return &TaskHandler{
		token:       token,
		logger:      params.Logger,
		maintenance: params.Maintenance,
	}
}

// Authorize rejects requests without the configured bearer token.
func (h *TaskHandler) Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.token == "" {
			return next(c)
		}

		got := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid task token")
		}

		return next(c)
	}
}

// PurgeExpired removes stale codes and sessions.
func (h *TaskHandler) PurgeExpired(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.maintenance.PurgeExpired(ctx)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Error("[Worker] Purge failed", slog.Any("error", err))

		return err
	}

	return c.JSON(http.StatusOK, domainerrors.NewSuccessResponse(result, deliverycontext.GetRequestID(c)))
}
