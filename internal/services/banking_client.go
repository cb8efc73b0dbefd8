package services

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/errors"
	"ega-bank-client/internal/models"
	"ega-bank-client/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const breakerService = "bank_api"

// Fallback messages shown when the backend gives no usable error body
const (
	MsgLoginFailed          = "Login failed"
	MsgRegistrationFailed   = "Registration failed"
	MsgLoadAccountsFailed   = "Failed to load accounts"
	MsgCreateAccountFailed  = "Account creation failed"
	MsgDepositFailed        = "Deposit failed"
	MsgWithdrawalFailed     = "Withdrawal failed"
	MsgTransferFailed       = "Transfer failed"
	MsgLoadTransactionsFail = "Failed to load transactions"
)

// statusPolicy decides how a non-2xx response is classified for one operation
type statusPolicy func(status int, body []byte, fallback string, opts ...errors.ErrorOption) *errors.Error

// BankingAPIClient is a stateless translator between intents and the bank's REST API
type BankingAPIClient struct {
	baseURL   string
	client    *http.Client
	session   SessionStoreInterface
	breaker   CircuitBreakerInterface
	metrics   MetricsRecorderInterface
	validator *validation.Validator
	requests  *RequestLogger
	audit     AuditLoggerInterface
	logger    *slog.Logger
}

// NewBankingAPIClient creates a client for the API described by cfg
func NewBankingAPIClient(
	cfg *config.APIConfig,
	session SessionStoreInterface,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) BankingAPIClientInterface {

	var limiter *rate.Limiter
	if cfg.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), max(cfg.RateLimitBurst, 1))
	}

	client := &http.Client{
		Transport: NewSessionTransport(session, limiter, http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}

	return &BankingAPIClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    client,
		session:   session,
		breaker:   breaker,
		metrics:   metrics,
		validator: validation.GetValidator(),
		requests:  NewRequestLogger(logger),
		audit:     NewAuditLogger(logger),
		logger:    logger,
	}
}

func (c *BankingAPIClient) buildRequest(
	ctx context.Context,
	method, path string,
	body any,
) (*http.Request, error) {

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

// call sends one request and returns the body of a 2xx response. Every other
// outcome is returned as an *errors.Error classified by policy.
func (c *BankingAPIClient) call(
	ctx context.Context,
	operation, method, path string,
	body any,
	policy statusPolicy,
	fallback string,
) ([]byte, error) {

	if err := c.allow(ctx); err != nil {
		c.recordRequest(operation, "circuit_open", 0)
		return nil, errors.New(errors.NetworkCircuitOpen, errors.WithCause(err))
	}

	traceID := uuid.New().String()
	ctx = WithTraceID(ctx, traceID)

	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		c.breaker.Abandon()
		return nil, errors.New(errors.ValidationGeneral, errors.WithCause(err))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.requests.LogRequestFailed(ctx, operation, method, path, err, duration)
		if ctx.Err() != nil {
			c.breaker.Abandon()
			c.recordRequest(operation, "aborted", duration)
			return nil, errors.New(errors.NetworkRequestAborted, errors.WithCause(err), errors.WithTraceID(traceID))
		}
		c.observe(ctx, 0, err)
		c.recordRequest(operation, "transport_error", duration)
		return nil, errors.New(errors.NetworkUnreachable, errors.WithCause(err), errors.WithTraceID(traceID))
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		c.observe(ctx, resp.StatusCode, err)
		c.recordRequest(operation, "transport_error", duration)
		return nil, errors.New(errors.NetworkUnreachable,
			errors.WithCause(fmt.Errorf("read response body: %w", err)),
			errors.WithStatus(resp.StatusCode),
			errors.WithTraceID(traceID))
	}

	c.requests.LogRequestCompleted(ctx, operation, method, path, resp.StatusCode, duration)
	c.observe(ctx, resp.StatusCode, nil)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.recordRequest(operation, "success", duration)
		return respBody, nil
	case resp.StatusCode >= 500:
		c.recordRequest(operation, "server_error", duration)
	default:
		c.recordRequest(operation, "client_error", duration)
	}

	return nil, policy(resp.StatusCode, respBody, fallback, errors.WithTraceID(traceID))
}

func (c *BankingAPIClient) recordRequest(operation, status string, duration time.Duration) {
	c.metrics.IncrementCounter("api.request", map[string]string{
		"operation": operation,
		"status":    status,
	})
	if duration > 0 {
		c.metrics.RecordProcessingTime("api."+operation, duration)
	}
}

func (c *BankingAPIClient) allow(ctx context.Context) error {
	before := c.breaker.GetState()
	err := c.breaker.Allow()
	c.trackBreaker(ctx, before)
	return err
}

func (c *BankingAPIClient) observe(ctx context.Context, status int, err error) {
	before := c.breaker.GetState()
	c.breaker.Observe(status, err)
	c.trackBreaker(ctx, before)
}

func (c *BankingAPIClient) trackBreaker(ctx context.Context, before models.CircuitBreakerState) {
	after := c.breaker.GetState()
	c.metrics.RecordGauge("circuit_breaker.state", float64(after), map[string]string{"service": breakerService})
	if after != before {
		c.audit.LogCircuitBreakerStateChange(ctx, breakerService, before.String(), after.String())
	}
}

// rejectedCredentials maps every 4xx to an AuthError
func rejectedCredentials(status int, body []byte, fallback string, opts ...errors.ErrorOption) *errors.Error {
	if status >= 400 && status < 500 {
		message, _ := errors.ParseErrorPayload(body)
		if message == "" {
			message = fallback
		}
		opts = append([]errors.ErrorOption{errors.WithMessage(message), errors.WithStatus(status)}, opts...)
		return errors.New(errors.AuthInvalidCredentials, opts...)
	}
	return errors.FromResponse(status, body, fallback, opts...)
}

// rejectedInput maps every 4xx to a ValidationError
func rejectedInput(status int, body []byte, fallback string, opts ...errors.ErrorOption) *errors.Error {
	if status >= 400 && status < 500 {
		message, fields := errors.ParseErrorPayload(body)
		if message == "" {
			message = fallback
		}
		opts = append([]errors.ErrorOption{errors.WithMessage(message), errors.WithFields(fields), errors.WithStatus(status)}, opts...)
		return errors.New(errors.ValidationRejectedByBank, opts...)
	}
	return errors.FromResponse(status, body, fallback, opts...)
}

// authOrUnavailable maps 401/403 to AuthError and everything else to NetworkError
func authOrUnavailable(status int, body []byte, fallback string, opts ...errors.ErrorOption) *errors.Error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return errors.FromResponse(status, body, fallback, opts...)
	}
	message, _ := errors.ParseErrorPayload(body)
	if message == "" {
		message = fallback
	}
	opts = append([]errors.ErrorOption{errors.WithMessage(message), errors.WithStatus(status)}, opts...)
	return errors.New(errors.NetworkServerError, opts...)
}

// Login exchanges credentials for a token. The token is not persisted here.
func (c *BankingAPIClient) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.validator.Struct(req); err != nil {
		c.requests.LogValidationFailure(ctx, "login", err.Error())
		return nil, err
	}

	body, err := c.call(withoutAuth(ctx), "login", http.MethodPost, "/api/auth/login", req, rejectedCredentials, MsgLoginFailed)
	if err != nil {
		c.requests.LogLoginAttempt(ctx, username, false)
		return nil, err
	}

	var token dto.TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, errors.New(errors.DataMissingToken, errors.WithCause(err))
	}
	if strings.TrimSpace(token.Token) == "" {
		return nil, errors.New(errors.DataMissingToken)
	}

	c.requests.LogLoginAttempt(ctx, username, true)
	c.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": "login"})
	return &token, nil
}

func (c *BankingAPIClient) Register(ctx context.Context, username, password string) error {
	req := dto.RegisterRequest{Username: username, Password: password}
	if err := c.validator.Struct(req); err != nil {
		c.requests.LogValidationFailure(ctx, "register", err.Error())
		return err
	}

	if _, err := c.call(withoutAuth(ctx), "register", http.MethodPost, "/api/auth/register", req, rejectedInput, MsgRegistrationFailed); err != nil {
		return err
	}

	c.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": "register"})
	return nil
}

// ListAccounts fetches the client listing and flattens it, client order first
// then each client's account order
func (c *BankingAPIClient) ListAccounts(ctx context.Context) ([]models.Account, error) {
	body, err := c.call(ctx, "list_accounts", http.MethodGet, "/api/clients", nil, authOrUnavailable, MsgLoadAccountsFailed)
	if err != nil {
		return nil, err
	}

	var clients []models.Client
	if err := decodeList(body, &clients); err != nil {
		return nil, err
	}

	accounts := models.FlattenClients(clients)
	c.metrics.RecordGauge("accounts_listed", float64(len(accounts)), nil)
	return accounts, nil
}

func (c *BankingAPIClient) CreateAccount(ctx context.Context, clientID int64, accountType models.AccountType) error {
	req := dto.CreateAccountRequest{ClientID: clientID, Type: string(accountType)}
	if err := c.validator.Struct(req); err != nil {
		c.requests.LogValidationFailure(ctx, "create_account", err.Error())
		return err
	}
	req.Type = strings.ToUpper(req.Type)

	_, err := c.call(ctx, "create_account", http.MethodPost, "/api/accounts", req, errors.FromResponse, MsgCreateAccountFailed)
	return err
}

func (c *BankingAPIClient) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	return c.moveFunds(ctx, "deposit", accountNumber, amount, MsgDepositFailed)
}

func (c *BankingAPIClient) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	return c.moveFunds(ctx, "withdraw", accountNumber, amount, MsgWithdrawalFailed)
}

func (c *BankingAPIClient) moveFunds(ctx context.Context, operation, accountNumber string, amount decimal.Decimal, fallback string) error {
	if strings.TrimSpace(accountNumber) == "" {
		c.requests.LogValidationFailure(ctx, operation, "missing account number")
		return errors.New(errors.ValidationRequiredField, errors.WithFields(map[string]string{"accountNumber": "is required"}))
	}

	req := dto.AmountRequest{Amount: dto.NewMoney(amount)}
	if err := c.validator.Struct(req); err != nil {
		c.requests.LogValidationFailure(ctx, operation, err.Error())
		return err
	}

	path := "/api/accounts/" + url.PathEscape(accountNumber) + "/" + operation
	_, err := c.call(ctx, operation, http.MethodPost, path, req, errors.FromResponse, fallback)
	return err
}

// Transfer requires a destination and a positive amount. Same-account
// transfers are left to the backend to reject.
func (c *BankingAPIClient) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	req := dto.TransferRequest{
		FromAccount: strings.TrimSpace(from),
		ToAccount:   strings.TrimSpace(to),
		Amount:      dto.NewMoney(amount),
	}
	if err := c.validator.Struct(req); err != nil {
		c.requests.LogValidationFailure(ctx, "transfer", err.Error())
		var validationErr *errors.Error
		if stderrors.As(err, &validationErr) {
			return errors.New(errors.ValidationMissingAccount, errors.WithFields(validationErr.Fields), errors.WithCause(err))
		}
		return err
	}

	c.metrics.RecordGauge("transfer_amount", amount.InexactFloat64(), nil)

	_, err := c.call(ctx, "transfer", http.MethodPost, "/api/accounts/transfer", req, errors.FromResponse, MsgTransferFailed)
	return err
}

// ListTransactions returns the account's transactions in [start, end], in backend order
func (c *BankingAPIClient) ListTransactions(ctx context.Context, accountNumber string, start, end time.Time) ([]models.Transaction, error) {
	if strings.TrimSpace(accountNumber) == "" {
		return nil, errors.New(errors.ValidationRequiredField, errors.WithFields(map[string]string{"accountNumber": "is required"}))
	}
	requested := models.DateRange{Start: start, End: end}
	if err := requested.Validate(); err != nil {
		c.requests.LogValidationFailure(ctx, "list_transactions", err.Error())
		return nil, errors.New(errors.ValidationInvalidDate, errors.WithCause(err))
	}

	path := "/api/accounts/" + url.PathEscape(accountNumber) + "/transactions?" + instantQuery(requested)
	body, err := c.call(ctx, "list_transactions", http.MethodGet, path, nil, errors.FromResponse, MsgLoadTransactionsFail)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := decodeList(body, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	c.metrics.RecordGauge("transactions_listed", float64(len(transactions)), nil)
	return transactions, nil
}

// decodeList decodes a JSON array body. A 200 with no body at all is a data
// shape error, unlike an empty array.
func decodeList(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New(errors.DataUnexpectedNil)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New(errors.DataUndecodable, errors.WithCause(err))
	}
	return nil
}

// StatementURL builds a direct-download link. A plain link cannot carry an
// Authorization header, so the token travels as the auth query parameter.
func (c *BankingAPIClient) StatementURL(ctx context.Context, accountNumber string, start, end time.Time, format models.StatementFormat) string {
	query := instantQuery(models.DateRange{Start: start, End: end})
	if token, ok := c.session.GetToken(ctx); ok {
		query += "&auth=" + url.QueryEscape(token)
	}
	return c.baseURL + "/api/accounts/" + url.PathEscape(accountNumber) + format.PathSuffix() + "?" + query
}

// colons are legal in query values and the backend's examples keep them literal
var instantEscaper = strings.NewReplacer("%3A", ":")

func instantQuery(r models.DateRange) string {
	r = r.Normalized()
	return "start=" + instantEscaper.Replace(url.QueryEscape(models.FormatInstant(r.Start))) +
		"&end=" + instantEscaper.Replace(url.QueryEscape(models.FormatInstant(r.End)))
}
