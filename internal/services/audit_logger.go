package services

import (
	"context"
	"log/slog"
	"time"

	"ega-bank-client/internal/models"
)

// AuditLogger writes security and money-movement events as structured logs.
// The client records circuit breaker transitions; the stub backend records
// registrations, rejected logins and ledger entries.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", models.AuditEventCircuitBreakerStateChange),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx, "")),
	)
}

func (al *AuditLogger) LogUserRegistered(ctx context.Context, username, traceID string) {
	al.logger.InfoContext(ctx, "user registered",
		slog.String("event_type", models.AuditEventUserRegistered),
		slog.String("username", username),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx, traceID)),
	)
}

func (al *AuditLogger) LogLoginRejected(ctx context.Context, username, traceID string) {
	al.logger.WarnContext(ctx, "login rejected",
		slog.String("event_type", models.AuditEventLoginRejected),
		slog.String("username", username),
		slog.String("password", RedactedValue),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx, traceID)),
	)
}

// LogLedgerEntry records one posted entry
func (al *AuditLogger) LogLedgerEntry(ctx context.Context, entry models.LedgerAuditEntry) {
	al.logger.InfoContext(ctx, "ledger entry posted",
		slog.String("event_type", models.AuditEventLedgerEntryPosted),
		slog.Int64("transaction_id", entry.TransactionID),
		slog.String("type", entry.Type),
		slog.String("amount", entry.Amount),
		slog.String("source_account", entry.SourceAccount),
		slog.String("destination_account", entry.DestinationAccount),
		slog.String("username", entry.Username),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx, entry.TraceID)),
	)
}

// getCorrelationID prefers an explicit trace ID, then the one on ctx
func getCorrelationID(ctx context.Context, traceID string) string {
	if traceID != "" {
		return traceID
	}
	return TraceIDFromContext(ctx)
}
