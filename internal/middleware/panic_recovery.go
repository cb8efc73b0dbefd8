package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"ega-bank-client/internal/handlers"

	"github.com/labstack/echo/v4"
)

const MsgInternalError = "Internal server error"

// PanicRecovery recovers from handler panics and answers 500 {"error": "Internal server error"}
func PanicRecovery(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					traceID := GetTraceID(c)
					if traceID == "" {
						traceID = "unknown"
					}

					logger.Error("Panic recovered",
						"trace_id", traceID,
						"panic", fmt.Sprintf("%v", r),
						"stack_trace", string(debug.Stack()),
						"path", c.Request().URL.Path,
						"method", c.Request().Method,
					)

					if c.Response().Committed {
						return
					}
					if err := handlers.SendError(c, http.StatusInternalServerError, MsgInternalError); err != nil {
						logger.Error("Failed to send panic recovery response",
							"trace_id", traceID,
							"error", err.Error(),
						)
					}
				}
			}()

			return next(c)
		}
	}
}
