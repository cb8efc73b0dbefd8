package viewmodels

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "ega-bank-client/internal/errors"
	"ega-bank-client/internal/models"
	"ega-bank-client/internal/services"

	"github.com/shopspring/decimal"
)

// ListStatus is the state of the accounts list as a whole
type ListStatus int

const (
	StatusLoading ListStatus = iota
	StatusReady
	StatusError
)

func (s ListStatus) String() string {
	switch s {
	case StatusLoading:
		return "LOADING"
	case StatusReady:
		return "READY"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

const (
	MsgDepositSuccessful     = "Deposit successful"
	MsgWithdrawalSuccessful  = "Withdrawal successful"
	MsgTransferSuccessful    = "Transfer successful"
	MsgAccountCreated        = "Account created"
	MsgLogoutFailed          = "Logout failed"
	MsgTransactionsDiscarded = "History changed before transactions arrived; nothing was updated"
)

const (
	intentDeposit       = "deposit"
	intentWithdraw      = "withdraw"
	intentTransfer      = "transfer"
	intentCreateAccount = "create_account"
	intentLoad          = "load_accounts"
	intentTransactions  = "load_transactions"
	intentStatement     = "download_statement"
	intentLogout        = "logout"
)

// AccountsState is a snapshot of the accounts screen
type AccountsState struct {
	Status       ListStatus
	Accounts     []models.Account
	ErrorMessage string

	Mode           models.InteractionMode
	TransferTo     string
	TransferAmount decimal.Decimal

	DateRange           models.DateRange
	Transactions        []models.Transaction
	TransactionsAccount string
}

// IsEmpty reports a successful load that returned no accounts
func (s AccountsState) IsEmpty() bool {
	return s.Status == StatusReady && len(s.Accounts) == 0
}

type inflightKey struct {
	intent        string
	accountNumber string
}

// AccountsViewModel owns the accounts screen state. The mutex guards state
// only and is released before every call to the bank.
type AccountsViewModel struct {
	api     services.BankingAPIClientInterface
	session services.SessionStoreInterface
	metrics services.MetricsRecorderInterface
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	state    AccountsState
	inflight map[inflightKey]struct{}
}

func NewAccountsViewModel(
	api services.BankingAPIClientInterface,
	session services.SessionStoreInterface,
	metrics services.MetricsRecorderInterface,
	logger *slog.Logger,
) AccountsViewModelInterface {
	return &AccountsViewModel{
		api:      api,
		session:  session,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		state:    AccountsState{Status: StatusLoading, Mode: models.IdleMode()},
		inflight: make(map[inflightKey]struct{}),
	}
}

// State returns a copy of the current state
func (vm *AccountsViewModel) State() AccountsState {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := vm.state
	s.Accounts = append([]models.Account(nil), vm.state.Accounts...)
	s.Transactions = append([]models.Transaction(nil), vm.state.Transactions...)
	return s
}

func (vm *AccountsViewModel) Load(ctx context.Context) Result {
	return vm.Refresh(ctx)
}

// Refresh re-fetches the whole list. Overlapping refreshes are last-write-wins.
func (vm *AccountsViewModel) Refresh(ctx context.Context) Result {
	vm.mu.Lock()
	vm.state.Status = StatusLoading
	vm.state.ErrorMessage = ""
	vm.mu.Unlock()

	accounts, err := vm.api.ListAccounts(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.state.Status = StatusError
		vm.state.Accounts = nil
		vm.state.ErrorMessage = services.MsgLoadAccountsFailed
		vm.logger.WarnContext(ctx, "failed to load accounts", "error", err)

		result := failure(err, services.MsgLoadAccountsFailed)
		result.Message = services.MsgLoadAccountsFailed
		vm.record(intentLoad, result)
		return result
	}

	vm.state.Status = StatusReady
	vm.state.Accounts = accounts
	result := success("")
	vm.record(intentLoad, result)
	return result
}

func (vm *AccountsViewModel) CreateAccount(ctx context.Context, clientID int64, accountType string) Result {
	parsed, err := models.ParseAccountType(accountType)
	if err != nil {
		return vm.finish(ctx, intentCreateAccount, failure(apperrors.New(apperrors.ValidationInvalidType, apperrors.WithCause(err)), services.MsgCreateAccountFailed))
	}

	release, ok := vm.acquire(intentCreateAccount, strconv.FormatInt(clientID, 10))
	if !ok {
		return vm.finish(ctx, intentCreateAccount, busy())
	}
	defer release()

	if err := vm.api.CreateAccount(ctx, clientID, parsed); err != nil {
		return vm.finish(ctx, intentCreateAccount, failure(err, services.MsgCreateAccountFailed))
	}

	vm.Refresh(ctx)
	return vm.finish(ctx, intentCreateAccount, success(MsgAccountCreated))
}

func (vm *AccountsViewModel) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) Result {
	return vm.moveFunds(ctx, intentDeposit, accountNumber, amount, vm.api.Deposit, MsgDepositSuccessful, services.MsgDepositFailed)
}

func (vm *AccountsViewModel) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) Result {
	return vm.moveFunds(ctx, intentWithdraw, accountNumber, amount, vm.api.Withdraw, MsgWithdrawalSuccessful, services.MsgWithdrawalFailed)
}

func (vm *AccountsViewModel) moveFunds(
	ctx context.Context,
	intent, accountNumber string,
	amount decimal.Decimal,
	call func(context.Context, string, decimal.Decimal) error,
	successMsg, fallback string,
) Result {

	if !amount.IsPositive() {
		return vm.finish(ctx, intent, failure(apperrors.New(apperrors.ValidationNonPositive), fallback))
	}

	release, ok := vm.acquire(intent, accountNumber)
	if !ok {
		return vm.finish(ctx, intent, busy())
	}
	defer release()

	if err := call(ctx, accountNumber, amount); err != nil {
		return vm.finish(ctx, intent, failure(err, fallback))
	}

	vm.Refresh(ctx)
	return vm.finish(ctx, intent, success(successMsg))
}

// OpenTransfer focuses the transfer panel on accountNumber, closing any other panel
func (vm *AccountsViewModel) OpenTransfer(accountNumber string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.state.Mode = models.TransferMode(accountNumber)
	vm.state.TransferTo = ""
	vm.state.TransferAmount = decimal.Zero
}

// UpdateTransferForm records the transfer panel's inputs
func (vm *AccountsViewModel) UpdateTransferForm(to string, amount decimal.Decimal) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.state.TransferTo = to
	vm.state.TransferAmount = amount
}

// ExecuteTransfer leaves the panel open on failure so the input can be corrected
func (vm *AccountsViewModel) ExecuteTransfer(ctx context.Context, from, to string, amount decimal.Decimal) Result {
	if strings.TrimSpace(to) == "" || !amount.IsPositive() {
		return vm.finish(ctx, intentTransfer, failure(apperrors.New(apperrors.ValidationMissingAccount), services.MsgTransferFailed))
	}

	release, ok := vm.acquire(intentTransfer, from)
	if !ok {
		return vm.finish(ctx, intentTransfer, busy())
	}
	defer release()

	if err := vm.api.Transfer(ctx, from, to, amount); err != nil {
		return vm.finish(ctx, intentTransfer, failure(err, services.MsgTransferFailed))
	}

	vm.mu.Lock()
	if vm.state.Mode.IsOpenFor(models.ModeTransfer, from) {
		vm.state.Mode = models.IdleMode()
	}
	vm.state.TransferTo = ""
	vm.state.TransferAmount = decimal.Zero
	vm.mu.Unlock()

	vm.Refresh(ctx)
	return vm.finish(ctx, intentTransfer, success(MsgTransferSuccessful))
}

func (vm *AccountsViewModel) CloseTransfer() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.state.Mode.Kind == models.ModeTransfer {
		vm.state.Mode = models.IdleMode()
	}
}

// OpenHistory focuses the history panel on accountNumber with the last 30
// days selected and loads that range
func (vm *AccountsViewModel) OpenHistory(ctx context.Context, accountNumber string) Result {
	vm.mu.Lock()
	vm.state.Mode = models.HistoryMode(accountNumber)
	vm.state.DateRange = models.LastWindow(vm.now(), models.DefaultHistoryWindow)
	vm.mu.Unlock()

	return vm.LoadTransactions(ctx, accountNumber)
}

// ChangeDateRange stores r even when incomplete so partial input is kept;
// the result reports whether it can be loaded
func (vm *AccountsViewModel) ChangeDateRange(r models.DateRange) Result {
	vm.mu.Lock()
	vm.state.DateRange = r
	vm.mu.Unlock()

	if err := r.Validate(); err != nil {
		return failure(apperrors.New(apperrors.ValidationInvalidDate, apperrors.WithCause(err)), services.MsgLoadTransactionsFail)
	}
	return success("")
}

// LoadTransactions replaces the transaction list on success. A response is
// dropped if the panel moved to another account or range while it was pending.
func (vm *AccountsViewModel) LoadTransactions(ctx context.Context, accountNumber string) Result {
	vm.mu.Lock()
	requested := vm.state.DateRange
	vm.mu.Unlock()

	if err := requested.Validate(); err != nil {
		return vm.finish(ctx, intentTransactions, failure(apperrors.New(apperrors.ValidationInvalidDate, apperrors.WithCause(err)), services.MsgLoadTransactionsFail))
	}

	transactions, err := vm.api.ListTransactions(ctx, accountNumber, requested.Start, requested.End)
	if err != nil {
		return vm.finish(ctx, intentTransactions, failure(err, services.MsgLoadTransactionsFail))
	}

	vm.mu.Lock()
	current := vm.state.DateRange
	applied := vm.state.Mode.IsOpenFor(models.ModeHistory, accountNumber) &&
		current.Start.Equal(requested.Start) && current.End.Equal(requested.End)
	if applied {
		vm.state.Transactions = transactions
		vm.state.TransactionsAccount = accountNumber
	}
	vm.mu.Unlock()

	if !applied {
		vm.logger.DebugContext(ctx, "dropping stale transactions response", "account", accountNumber)
		return vm.finish(ctx, intentTransactions, discarded(MsgTransactionsDiscarded))
	}
	return vm.finish(ctx, intentTransactions, success(""))
}

// CloseHistory leaves the loaded transactions in place
func (vm *AccountsViewModel) CloseHistory() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.state.Mode.Kind == models.ModeHistory {
		vm.state.Mode = models.IdleMode()
	}
}

// DownloadStatement builds the statement link for the current range; it
// sends nothing and changes nothing
func (vm *AccountsViewModel) DownloadStatement(ctx context.Context, accountNumber string, format models.StatementFormat) Result {
	vm.mu.Lock()
	r := vm.state.DateRange
	vm.mu.Unlock()

	if err := r.Validate(); err != nil {
		return vm.finish(ctx, intentStatement, failure(apperrors.New(apperrors.ValidationInvalidDate, apperrors.WithCause(err)), ""))
	}

	result := success("")
	result.URL = vm.api.StatementURL(ctx, accountNumber, r.Start, r.End, format)
	return vm.finish(ctx, intentStatement, result)
}

// Logout clears the session and asks for the login route. Screen state is
// left as is since the screen is being abandoned.
func (vm *AccountsViewModel) Logout(ctx context.Context) Result {
	if err := vm.session.Logout(ctx); err != nil {
		vm.logger.ErrorContext(ctx, "failed to clear session", "error", err)
		return vm.finish(ctx, intentLogout, failure(err, MsgLogoutFailed))
	}

	result := success("")
	result.Redirect = RouteLogin
	return vm.finish(ctx, intentLogout, result)
}

// acquire marks intent as outstanding for accountNumber. It fails while the
// same intent for the same account is still running.
func (vm *AccountsViewModel) acquire(intent, accountNumber string) (func(), bool) {
	key := inflightKey{intent: intent, accountNumber: accountNumber}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if _, running := vm.inflight[key]; running {
		vm.metrics.IncrementCounter("intent.debounced", map[string]string{"intent": intent})
		return nil, false
	}
	vm.inflight[key] = struct{}{}

	return func() {
		vm.mu.Lock()
		delete(vm.inflight, key)
		vm.mu.Unlock()
	}, true
}

func (vm *AccountsViewModel) finish(ctx context.Context, intent string, result Result) Result {
	if !result.OK() && result.Outcome != OutcomeBusy && result.Outcome != OutcomeDiscarded {
		vm.logger.InfoContext(ctx, "intent failed",
			slog.String("intent", intent),
			slog.String("outcome", result.Outcome.String()),
			slog.String("message", result.Message),
		)
	}
	vm.record(intent, result)
	return result
}

func (vm *AccountsViewModel) record(intent string, result Result) {
	vm.metrics.IncrementCounter("intent.result", map[string]string{
		"intent":  intent,
		"outcome": result.Outcome.String(),
	})
}
