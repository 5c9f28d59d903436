package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "talk/internal/delivery/context"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware renders handler errors as the shared error envelope.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	requestID := deliverycontext.GetRequestID(c)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if text, ok := httpErr.Message.(string); ok {
			message = text
		}

		_ = c.JSON(httpErr.Code, &domainerrors.ErrorResponse{
			Error: &domainerrors.ErrorInfo{Code: "HTTP_ERROR", Message: message},
			Meta:  &domainerrors.MetaInfo{RequestID: requestID},
		})

		return
	}

	status, body := domainerrors.NewErrorResponse(err, requestID)
	if status >= http.StatusInternalServerError {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method),
		)
	}

	_ = c.JSON(status, body)
}
