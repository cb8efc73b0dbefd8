package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/models"
	"ega-bank-client/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	csvContentDisposition = "attachment; filename=statement.csv"
	pdfContentDisposition = "attachment; filename=statement.pdf"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	ledger *Ledger
	audit  services.AuditLoggerInterface
	logger *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(ledger *Ledger, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{ledger: ledger, audit: services.NewAuditLogger(logger), logger: logger}
}

// CreateAccount opens an account for a client
//
// Method: POST /api/accounts
// Success: 200 account
// Errors: 400 validation body, 400 {"error": "Client not found"}
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	accountType, err := models.ParseAccountType(req.Type)
	if err != nil {
		return SendValidationError(c, map[string]string{"type": err.Error()})
	}

	account, err := h.ledger.CreateAccount(req.ClientID, accountType)
	if err != nil {
		return respondError(c, ledgerHTTPError(err))
	}

	h.logger.InfoContext(c.Request().Context(), "account created",
		slog.String("account_number", account.AccountNumber),
		slog.Int64("client_id", req.ClientID),
		slog.String("trace_id", getTraceID(c)),
	)
	return c.JSON(http.StatusOK, account)
}

// GetAccount returns one account with its owner
//
// Method: GET /api/accounts/:accountNumber
// Success: 200 account
// Errors: 404 with an empty body
func (h *AccountHandler) GetAccount(c echo.Context) error {
	account, ok := h.ledger.Account(c.Param("accountNumber"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, account)
}

// Deposit credits an account
//
// Method: POST /api/accounts/:accountNumber/deposit
// Success: 200 transaction
// Errors: 400
func (h *AccountHandler) Deposit(c echo.Context) error {
	var req dto.AmountRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	entry, err := h.ledger.Deposit(c.Param("accountNumber"), req.Amount.Decimal())
	if err != nil {
		return respondError(c, ledgerHTTPError(err))
	}

	return h.sendEntry(c, entry)
}

// Withdraw debits an account
//
// Method: POST /api/accounts/:accountNumber/withdraw
// Success: 200 transaction
// Errors: 400 {"error": "Insufficient funds"}
func (h *AccountHandler) Withdraw(c echo.Context) error {
	var req dto.AmountRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	entry, err := h.ledger.Withdraw(c.Param("accountNumber"), req.Amount.Decimal())
	if err != nil {
		return respondError(c, ledgerHTTPError(err))
	}

	return h.sendEntry(c, entry)
}

// Transfer moves money between two accounts
//
// Method: POST /api/accounts/transfer
// Success: 200 transaction
// Errors: 400 {"error": "..."} for same account, unknown accounts, insufficient funds
func (h *AccountHandler) Transfer(c echo.Context) error {
	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	entry, err := h.ledger.Transfer(req.FromAccount, req.ToAccount, req.Amount.Decimal())
	if err != nil {
		return respondError(c, ledgerHTTPError(err))
	}

	return h.sendEntry(c, entry)
}

// Transactions lists the account's transactions in [start, end], oldest first
//
// Method: GET /api/accounts/:accountNumber/transactions?start=&end=
// Success: 200 [transaction]
// Errors: 400
func (h *AccountHandler) Transactions(c echo.Context) error {
	entries, err := h.transactionsInRange(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// StatementCSV renders the range as a CSV attachment
//
// Method: GET /api/accounts/:accountNumber/statement?start=&end=
// Success: 200 text/plain
func (h *AccountHandler) StatementCSV(c echo.Context) error {
	entries, err := h.transactionsInRange(c)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, csvContentDisposition)
	return c.String(http.StatusOK, renderStatementCSV(entries))
}

// StatementPDF renders the range as a PDF attachment
//
// Method: GET /api/accounts/:accountNumber/statement.pdf?start=&end=
// Success: 200 application/pdf
func (h *AccountHandler) StatementPDF(c echo.Context) error {
	entries, err := h.transactionsInRange(c)
	if err != nil {
		return respondError(c, err)
	}

	account, ok := h.ledger.Account(c.Param("accountNumber"))
	if !ok {
		return SendError(c, http.StatusBadRequest, ErrAccountNotFound.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, pdfContentDisposition)
	return c.Blob(http.StatusOK, "application/pdf", renderStatementPDF(account, entries))
}

// transactionsInRange parses the range and loads the entries. Client errors
// come back as *echo.HTTPError for respondError.
func (h *AccountHandler) transactionsInRange(c echo.Context) ([]TransactionView, error) {
	start, err := parseDateTimeParam(c, "start")
	if err != nil {
		return nil, validationHTTPError(map[string]string{"start": err.Error()})
	}
	end, err := parseDateTimeParam(c, "end")
	if err != nil {
		return nil, validationHTTPError(map[string]string{"end": err.Error()})
	}

	entries, err := h.ledger.Transactions(c.Param("accountNumber"), start, end)
	if err != nil {
		return nil, ledgerHTTPError(err)
	}

	views := make([]TransactionView, 0, len(entries))
	for _, e := range entries {
		views = append(views, transactionViewOf(e))
	}
	return views, nil
}

func (h *AccountHandler) sendEntry(c echo.Context, entry LedgerEntry) error {
	username, _ := getUsernameFromContext(c)
	h.audit.LogLedgerEntry(c.Request().Context(), models.LedgerAuditEntry{
		TransactionID:      entry.ID,
		Type:               string(entry.Type),
		Amount:             moneyString(entry.Amount),
		SourceAccount:      entry.Source,
		DestinationAccount: entry.Destination,
		Username:           username,
		TraceID:            getTraceID(c),
	})
	return c.JSON(http.StatusOK, transactionViewOf(entry))
}

// ledgerHTTPError maps business rule violations to 400 {"error": message}
func ledgerHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrSourceNotFound),
		errors.Is(err, ErrDestinationNotFound),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientForTransfer),
		errors.Is(err, ErrNonPositiveAmount):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return err
	}
}
