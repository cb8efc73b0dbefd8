package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ega-bank-client/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultGeneratedCount = 100
	maxGeneratedCount     = 1000
	defaultGeneratedDays  = 30
	maxGeneratedDays      = 365
)

// GenerateTestDataResponse reports what a generation run posted
type GenerateTestDataResponse struct {
	Message             string            `json:"message"`
	TransactionsCreated int               `json:"transactionsCreated"`
	AccountNumber       string            `json:"accountNumber"`
	DateRange           map[string]string `json:"dateRange"`
}

// DevHandler handles development-only endpoints of the stub backend
type DevHandler struct {
	ledger    *Ledger
	generator services.TransactionGeneratorInterface
	logger    *slog.Logger
	now       func() time.Time
}

// NewDevHandler creates a new development handler
func NewDevHandler(ledger *Ledger, generator services.TransactionGeneratorInterface, logger *slog.Logger) *DevHandler {
	return &DevHandler{
		ledger:    ledger,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateTestData backfills realistic transaction history for an account
//
// Method: POST /api/dev/accounts/:accountNumber/generate-test-data
// Authentication: Required
//
// Query parameters:
//   - count: Number of purchases to generate (default: 100, max: 1000)
//   - days: Number of days of history to generate (default: 30, max: 365)
//
// Success: 200 {"message", "transactionsCreated", "accountNumber", "dateRange"}
// Errors: 400 {"error": "Account not found"}, 401, 403
func (h *DevHandler) GenerateTestData(c echo.Context) error {
	accountNumber := c.Param("accountNumber")
	account, ok := h.ledger.Account(accountNumber)
	if !ok {
		return SendError(c, http.StatusBadRequest, ErrAccountNotFound.Error())
	}

	count := clamp(getIntQueryParam(c, "count", defaultGeneratedCount), 1, maxGeneratedCount)
	days := clamp(getIntQueryParam(c, "days", defaultGeneratedDays), 1, maxGeneratedDays)

	endDate := h.now().UTC()
	startDate := endDate.AddDate(0, 0, -days)

	history := h.generator.GenerateHistoricalTransactions(startDate, endDate, account.Balance.Decimal(), count)
	created, err := h.ledger.Backfill(accountNumber, history)
	if err != nil {
		return respondError(c, ledgerHTTPError(err))
	}

	h.logger.InfoContext(c.Request().Context(), "test data generated",
		slog.String("account_number", accountNumber),
		slog.Int("transactions_created", created),
		slog.String("trace_id", getTraceID(c)),
	)

	return c.JSON(http.StatusOK, GenerateTestDataResponse{
		Message:             "test data generated successfully",
		TransactionsCreated: created,
		AccountNumber:       accountNumber,
		DateRange: map[string]string{
			"start": formatLocal(startDate),
			"end":   formatLocal(endDate),
		},
	})
}

// Helper function to get integer query parameters
func getIntQueryParam(c echo.Context, key string, defaultValue int) int {
	valueStr := c.QueryParam(key)
	if valueStr == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
