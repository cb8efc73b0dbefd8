package handlers

import (
	"net/http"
	"time"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/errors"
	"ega-bank-client/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ERROR PAYLOADS
//
// The stub answers in the bank backend's shapes so the client parses real
// responses:
//
//  1. SendError - {"error": message} with the given status. Business rule
//     violations (insufficient funds, unknown account) are 400.
//  2. SendValidationError - {"error": "Validation failed", "fields": {...}}.
//  3. SendPlainError - a bare text body, used by register for duplicates.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"

	// LocalDateTimeLayout is how the backend renders timestamps: zone-less, UTC
	LocalDateTimeLayout = "2006-01-02T15:04:05"

	MsgValidationFailed = "Validation failed"
)

// ErrorResponse is the backend's JSON error body
type ErrorResponse = errors.BackendErrorPayload

// OwnerView is the owner summary embedded in an account
type OwnerView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AccountView is an account as the backend serializes it
type AccountView struct {
	ID            int64              `json:"id"`
	AccountNumber string             `json:"accountNumber"`
	Type          models.AccountType `json:"type"`
	Balance       dto.Money          `json:"balance"`
	CreatedAt     string             `json:"createdAt"`
	Owner         *OwnerView         `json:"owner,omitempty"`
}

// ClientView is a client with its accounts
type ClientView struct {
	ID int64 `json:"id"`
	dto.CreateClientRequest
	Accounts []AccountView `json:"accounts"`
}

// TransactionView is a ledger entry as the backend serializes it
type TransactionView struct {
	ID                 int64                  `json:"id"`
	Type               models.TransactionType `json:"type"`
	Amount             dto.Money              `json:"amount"`
	Timestamp          string                 `json:"timestamp"`
	SourceAccount      string                 `json:"sourceAccount,omitempty"`
	DestinationAccount string                 `json:"destinationAccount,omitempty"`
	Description        string                 `json:"description,omitempty"`
}

func accountViewOf(a *accountRecord) AccountView {
	return AccountView{
		ID:            a.id,
		AccountNumber: a.accountNumber,
		Type:          a.accountType,
		Balance:       dto.NewMoney(a.balance),
		CreatedAt:     formatLocal(a.createdAt),
	}
}

func ownerViewOf(c *clientRecord) OwnerView {
	return OwnerView{ID: c.id, FirstName: c.profile.FirstName, LastName: c.profile.LastName}
}

func transactionViewOf(e LedgerEntry) TransactionView {
	return TransactionView{
		ID:                 e.ID,
		Type:               e.Type,
		Amount:             dto.NewMoney(e.Amount),
		Timestamp:          formatLocal(e.Timestamp),
		SourceAccount:      e.Source,
		DestinationAccount: e.Destination,
		Description:        e.Description,
	}
}

func formatLocal(t time.Time) string {
	return t.UTC().Format(LocalDateTimeLayout)
}

// moneyString renders an amount the way the backend prints BigDecimal values
func moneyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SendError sends {"error": message} with status
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// SendValidationError sends the field-level validation body
func SendValidationError(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgValidationFailed, Fields: fields})
}

// SendPlainError sends message as a bare text body
func SendPlainError(c echo.Context, status int, message string) error {
	return c.String(status, message)
}

// SendBindError reports a body that could not be decoded
func SendBindError(c echo.Context) error {
	return SendError(c, http.StatusBadRequest, "Malformed request body")
}

// SendRequestError sends err from c.Validate as the validation body
func SendRequestError(c echo.Context, err error) error {
	if e, ok := err.(*errors.Error); ok && len(e.Fields) > 0 {
		return SendValidationError(c, e.Fields)
	}
	return SendError(c, http.StatusBadRequest, errors.UserMessage(err, MsgValidationFailed))
}

func validationHTTPError(fields map[string]string) error {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: MsgValidationFailed, Fields: fields})
}

// respondError writes an *echo.HTTPError carrying an ErrorResponse. Any other
// error is returned for the server's error handler.
func respondError(c echo.Context, err error) error {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return err
	}
	if body, ok := he.Message.(ErrorResponse); ok {
		return c.JSON(he.Code, body)
	}
	return err
}

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
