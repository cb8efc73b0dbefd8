package services

import (
	"context"
	"log/slog"
	"time"
)

const (
	// RedactedValue is used to mask tokens and passwords in logs
	RedactedValue = "***REDACTED***"
)

type traceIDKey struct{}

// WithTraceID stores the trace ID sent with the outbound request on ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID set by WithTraceID, if any
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok {
		return traceID
	}
	return ""
}

// RequestLogger provides structured logging for bank API calls
type RequestLogger struct {
	logger *slog.Logger
}

func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

// LogRequestCompleted logs a call that got an HTTP response, whatever its status
func (rl *RequestLogger) LogRequestCompleted(ctx context.Context, operation, method, path string, status int, duration time.Duration) {
	level := slog.LevelDebug
	if status >= 400 {
		level = slog.LevelWarn
	}
	rl.logger.Log(ctx, level, "bank api request completed",
		slog.String("event_type", "api_request_completed"),
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("duration_ms", duration.Milliseconds()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	)
}

// LogRequestFailed logs a call that never produced a response
func (rl *RequestLogger) LogRequestFailed(ctx context.Context, operation, method, path string, err error, duration time.Duration) {
	rl.logger.ErrorContext(ctx, "bank api request failed",
		slog.String("event_type", "api_request_failed"),
		slog.String("operation", operation),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.Int64("duration_ms", duration.Milliseconds()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	)
}

// LogValidationFailure logs an intent rejected before any request was sent
func (rl *RequestLogger) LogValidationFailure(ctx context.Context, operation string, errorMsg string) {
	rl.logger.InfoContext(ctx, "request rejected locally",
		slog.String("event_type", "validation_failure"),
		slog.String("operation", operation),
		slog.String("error", errorMsg),
	)
}

// LogLoginAttempt logs a login without its credentials
func (rl *RequestLogger) LogLoginAttempt(ctx context.Context, username string, succeeded bool) {
	rl.logger.InfoContext(ctx, "login attempt",
		slog.String("event_type", "login_attempt"),
		slog.String("username", username),
		slog.String("password", RedactedValue),
		slog.Bool("succeeded", succeeded),
	)
}
