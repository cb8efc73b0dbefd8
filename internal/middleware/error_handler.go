package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	apperrors "ega-bank-client/internal/errors"
	"ega-bank-client/internal/handlers"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrorHandler renders every error that reaches echo in the backend's
// {"error": message} shape and counts it by route and status
type ErrorHandler struct {
	logger      *slog.Logger
	errorsTotal *prometheus.CounterVec
}

// NewErrorHandler registers the stub_http_errors_total counter on reg
func NewErrorHandler(logger *slog.Logger, reg prometheus.Registerer) *ErrorHandler {
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stub_http_errors_total",
			Help: "Total number of error responses by route and status",
		},
		[]string{"route", "status"},
	)
	reg.MustRegister(errorsTotal)

	return &ErrorHandler{logger: logger, errorsTotal: errorsTotal}
}

// Handle is an echo.HTTPErrorHandler
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	status, body := errorBody(err)

	logLevel := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}

	h.logger.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"status", status,
		"message", body.Error,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	h.errorsTotal.WithLabelValues(c.Path(), fmt.Sprintf("%d", status)).Inc()

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		h.logger.Error("Failed to send error response",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}
}

func errorBody(err error) (int, handlers.ErrorResponse) {
	if echoErr, ok := err.(*echo.HTTPError); ok {
		switch msg := echoErr.Message.(type) {
		case handlers.ErrorResponse:
			return echoErr.Code, msg
		case string:
			return echoErr.Code, handlers.ErrorResponse{Error: msg}
		default:
			return echoErr.Code, handlers.ErrorResponse{Error: http.StatusText(echoErr.Code)}
		}
	}

	if appErr, ok := err.(*apperrors.Error); ok && appErr.Kind == apperrors.KindValidation {
		return http.StatusBadRequest, handlers.ErrorResponse{Error: handlers.MsgValidationFailed, Fields: appErr.Fields}
	}

	return http.StatusInternalServerError, handlers.ErrorResponse{Error: MsgInternalError}
}
