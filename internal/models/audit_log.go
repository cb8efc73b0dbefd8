package models

// Audit event types written by the audit logger
const (
	AuditEventCircuitBreakerStateChange = "circuit_breaker_state_change"
	AuditEventUserRegistered            = "user_registered"
	AuditEventLoginRejected             = "login_rejected"
	AuditEventLedgerEntryPosted         = "ledger_entry_posted"
)

// LedgerAuditEntry is what the audit trail keeps about a posted ledger entry.
// Deposits have no source and withdrawals no destination.
type LedgerAuditEntry struct {
	TransactionID      int64
	Type               string
	Amount             string
	SourceAccount      string
	DestinationAccount string
	Username           string
	TraceID            string
}
