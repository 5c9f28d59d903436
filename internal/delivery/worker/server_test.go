package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"talk/config"
	deliverycontext "talk/internal/delivery/context"
	"talk/internal/delivery/worker/handler"
	"talk/internal/domain/constants"
	"talk/internal/domain/service"
	"talk/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMaintenance struct {
	mock.Mock
}

func (m *mockMaintenance) PurgeExpired(ctx context.Context) (*usecase.PurgeResult, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*usecase.PurgeResult)

	return result, args.Error(1)
}

type noopMailDelivery struct{}

func (noopMailDelivery) Deliver(context.Context, *service.MailEvent) error { return nil }

func newTestRouter(t *testing.T, maintenance usecase.MaintenanceUsecase) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Maintenance: &config.MaintenanceConfig{TaskToken: "task-secret"}}
	cfg.Env.Env = constants.EnvDevelop
	cfg.HTTP.MaxRequestBodySize = "100KB"

	push := handler.NewPushHandler(handler.PushHandlerParams{Config: cfg, Logger: logger, MailDelivery: noopMailDelivery{}})
	tasks := handler.NewTaskHandler(handler.TaskHandlerParams{Config: cfg, Logger: logger, Maintenance: maintenance})

	return NewRouter(cfg, logger, push, tasks)
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-42")
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := serve(newTestRouter(t, &mockMaintenance{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_PurgeExpired(t *testing.T) {
	t.Run("requires the task token", func(t *testing.T) {
		maintenance := &mockMaintenance{}
		e := newTestRouter(t, maintenance)

		for _, token := range []string{"", "wrong"} {
			rec := serve(e, http.MethodPost, "/tasks/purge-expired", token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		}
		maintenance.AssertNotCalled(t, "PurgeExpired", mock.Anything)
	})

	t.Run("reports purged rows", func(t *testing.T) {
		maintenance := &mockMaintenance{}
		maintenance.On("PurgeExpired", mock.Anything).Return(&usecase.PurgeResult{OTPs: 3, RefreshTokens: 2}, nil).Once()

		rec := serve(newTestRouter(t, maintenance), http.MethodPost, "/tasks/purge-expired", "task-secret")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data usecase.PurgeResult `json:"data"`
			Meta struct {
				RequestID string `json:"request_id"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.EqualValues(t, 3, body.Data.OTPs)
		assert.EqualValues(t, 2, body.Data.RefreshTokens)
		assert.Equal(t, "req-42", body.Meta.RequestID)
		maintenance.AssertExpectations(t)
	})

	t.Run("failures use the error envelope", func(t *testing.T) {
		maintenance := &mockMaintenance{}
		maintenance.On("PurgeExpired", mock.Anything).Return(nil, errors.New("db down"))

		rec := serve(newTestRouter(t, maintenance), http.MethodPost, "/tasks/purge-expired", "task-secret")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	})
}
