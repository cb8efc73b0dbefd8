package services

import (
	"context"
	"net/http"
	"time"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/models"

	"github.com/shopspring/decimal"
)

// TokenStorageInterface is the key/value primitive a SessionStore persists through
type TokenStorageInterface interface {
	Load(ctx context.Context, key string) (token string, ok bool, err error)
	Store(ctx context.Context, key, token string) error
	Remove(ctx context.Context, key string) error
}

// SessionStoreInterface owns the single session token
type SessionStoreInterface interface {
	SaveToken(ctx context.Context, token string) error
	GetToken(ctx context.Context) (string, bool)
	AuthHeader(ctx context.Context) http.Header
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// BankingAPIClientInterface translates intents into backend calls
type BankingAPIClientInterface interface {
	Login(ctx context.Context, username, password string) (*dto.TokenResponse, error)
	Register(ctx context.Context, username, password string) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CreateAccount(ctx context.Context, clientID int64, accountType models.AccountType) error
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error
	ListTransactions(ctx context.Context, accountNumber string, start, end time.Time) ([]models.Transaction, error)
	StatementURL(ctx context.Context, accountNumber string, start, end time.Time, format models.StatementFormat) string
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	Allow() error
	Observe(status int, err error)
	Abandon()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

type TokenServiceInterface interface {
	GenerateAccessToken(username string, roles []string) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	InspectToken(tokenString string) (*models.TokenInfo, error)
}

type PasswordServiceInterface interface {
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

type AuditLoggerInterface interface {
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
	LogUserRegistered(ctx context.Context, username, traceID string)
	LogLoginRejected(ctx context.Context, username, traceID string)
	LogLedgerEntry(ctx context.Context, entry models.LedgerAuditEntry)
}

type TransactionGeneratorInterface interface {
	GenerateHistoricalTransactions(startDate, endDate time.Time, startingBalance decimal.Decimal, count int) []models.HistoricalEntry
}
