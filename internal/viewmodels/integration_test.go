package viewmodels

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/handlers"
	"ega-bank-client/internal/models"
	"ega-bank-client/internal/services"
	"ega-bank-client/internal/stub"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// StubBackendTestSuite drives both view models against the in-memory backend
// over real HTTP
type StubBackendTestSuite struct {
	suite.Suite
	backend  *httptest.Server
	server   *stub.Server
	demo     handlers.ClientView
	session  services.SessionStoreInterface
	login    LoginViewModelInterface
	accounts AccountsViewModelInterface
	ctx      context.Context
}

func TestStubBackendSuite(t *testing.T) {
	suite.Run(t, new(StubBackendTestSuite))
}

func (s *StubBackendTestSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.server = stub.NewServer(config.StubConfig{
		JWTSecret:  "integration-secret",
		TokenTTL:   time.Hour,
		BCryptCost: bcrypt.MinCost,
	}, logger, prometheus.NewRegistry())
	demo, err := s.server.Seed("demo", "demo-pass", 42)
	s.Require().NoError(err)
	s.demo = demo
	s.backend = httptest.NewServer(s.server)

	metrics := services.NewPrometheusMetrics(prometheus.NewRegistry())
	s.session = services.NewSessionStore(services.NewMemoryTokenStorage(), "ega_token", logger)
	api := services.NewBankingAPIClient(&config.APIConfig{BaseURL: s.backend.URL, Timeout: 5 * time.Second},
		s.session, services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig()), metrics, logger)

	s.login = NewLoginViewModel(api, s.session, metrics, logger)
	s.accounts = NewAccountsViewModel(api, s.session, metrics, logger)
}

func (s *StubBackendTestSuite) TearDownTest() {
	s.backend.Close()
}

func (s *StubBackendTestSuite) checking() string { return s.demo.Accounts[0].AccountNumber }
func (s *StubBackendTestSuite) savings() string  { return s.demo.Accounts[1].AccountNumber }

func (s *StubBackendTestSuite) loggedIn() {
	result := s.login.Login(s.ctx, "demo", "demo-pass")
	s.Require().True(result.OK(), result.Message)
}

func (s *StubBackendTestSuite) balance(accountNumber string) string {
	for _, acc := range s.accounts.State().Accounts {
		if acc.AccountNumber == accountNumber {
			return acc.Balance.String()
		}
	}
	s.Failf("account not listed", accountNumber)
	return ""
}

func (s *StubBackendTestSuite) TestLoginThenListAccounts() {
	result := s.login.Login(s.ctx, "demo", "demo-pass")
	s.True(result.OK())
	s.Equal(RouteAccounts, result.Redirect)
	s.True(s.session.IsAuthenticated(s.ctx))

	s.True(s.accounts.Load(s.ctx).OK())
	state := s.accounts.State()
	s.Equal(StatusReady, state.Status)
	s.Require().Len(state.Accounts, 2)
	s.Equal(s.checking(), state.Accounts[0].AccountNumber)
	s.Equal(s.demo.LastName, state.Accounts[0].Owner.LastName)
	s.Equal("1000", s.balance(s.checking()))
}

func (s *StubBackendTestSuite) TestBadLoginKeepsPreviousSession() {
	s.loggedIn()
	previous, _ := s.session.GetToken(s.ctx)

	result := s.login.Login(s.ctx, "demo", "wrong")
	s.Equal(OutcomeAuthError, result.Outcome)

	current, ok := s.session.GetToken(s.ctx)
	s.True(ok)
	s.Equal(previous, current)
}

func (s *StubBackendTestSuite) TestRegisterThenDuplicate() {
	result := s.login.Register(s.ctx, "kojo", "kojo-pass")
	s.True(result.OK())
	s.Equal(MsgRegistrationSuccessful, result.Message)
	s.False(s.session.IsAuthenticated(s.ctx))

	result = s.login.Register(s.ctx, "kojo", "kojo-pass")
	s.Equal(OutcomeValidationError, result.Outcome)
	s.Equal("Username already exists", result.Message)
}

func (s *StubBackendTestSuite) TestMutationsRefreshBalances() {
	s.loggedIn()
	s.Require().True(s.accounts.Load(s.ctx).OK())

	result := s.accounts.Deposit(s.ctx, s.savings(), decimal.NewFromInt(75))
	s.True(result.OK())
	s.Equal(MsgDepositSuccessful, result.Message)
	s.Equal("75", s.balance(s.savings()))

	result = s.accounts.Withdraw(s.ctx, s.checking(), decimal.NewFromInt(5000))
	s.Equal(OutcomeValidationError, result.Outcome)
	s.Equal("Insufficient funds", result.Message)
	s.Equal("1000", s.balance(s.checking()))

	s.accounts.OpenTransfer(s.checking())
	s.accounts.UpdateTransferForm(s.savings(), decimal.NewFromInt(200))
	result = s.accounts.ExecuteTransfer(s.ctx, s.checking(), s.savings(), decimal.NewFromInt(200))
	s.True(result.OK())
	s.Equal(MsgTransferSuccessful, result.Message)
	s.Equal(models.ModeIdle, s.accounts.State().Mode.Kind)
	s.Equal("800", s.balance(s.checking()))
	s.Equal("275", s.balance(s.savings()))
}

func (s *StubBackendTestSuite) TestTransferBackendRejection() {
	s.loggedIn()
	s.Require().True(s.accounts.Load(s.ctx).OK())

	result := s.accounts.ExecuteTransfer(s.ctx, s.checking(), "FR0000", decimal.NewFromInt(1))
	s.Equal(OutcomeValidationError, result.Outcome)
	s.Equal("Destination account not found", result.Message)
}

func (s *StubBackendTestSuite) TestCreateAccount() {
	s.loggedIn()
	s.Require().True(s.accounts.Load(s.ctx).OK())

	result := s.accounts.CreateAccount(s.ctx, s.demo.ID, "savings")
	s.True(result.OK())
	s.Len(s.accounts.State().Accounts, 3)
}

func (s *StubBackendTestSuite) TestHistoryAndStatement() {
	s.loggedIn()
	s.Require().True(s.accounts.Load(s.ctx).OK())

	result := s.accounts.OpenHistory(s.ctx, s.checking())
	s.True(result.OK())
	state := s.accounts.State()
	s.True(state.Mode.IsOpenFor(models.ModeHistory, s.checking()))
	s.Require().Len(state.Transactions, 1)
	s.Equal(models.TransactionTypeDeposit, state.Transactions[0].Type)

	result = s.accounts.DownloadStatement(s.ctx, s.checking(), models.StatementFormatCSV)
	s.Require().True(result.OK())
	s.Contains(result.URL, "auth=")

	resp, err := http.Get(result.URL)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "id,type,amount,timestamp,sourceAccount,destinationAccount,description")
}

func (s *StubBackendTestSuite) TestHistoryIncludesDepositJustMade() {
	s.loggedIn()
	s.Require().True(s.accounts.Load(s.ctx).OK())
	s.Require().True(s.accounts.Deposit(s.ctx, s.checking(), decimal.NewFromInt(7)).OK())

	result := s.accounts.OpenHistory(s.ctx, s.checking())
	s.Require().True(result.OK(), result.Message)

	transactions := s.accounts.State().Transactions
	s.Require().Len(transactions, 2)
	s.True(decimal.NewFromInt(7).Equal(transactions[1].Amount), transactions[1].Amount.String())
	s.Equal(models.TransactionTypeDeposit, transactions[1].Type)
}

func (s *StubBackendTestSuite) TestLogoutEndsSession() {
	s.loggedIn()

	result := s.accounts.Logout(s.ctx)
	s.True(result.OK())
	s.Equal(RouteLogin, result.Redirect)
	s.False(s.session.IsAuthenticated(s.ctx))

	result = s.accounts.Refresh(s.ctx)
	s.Equal(OutcomeAuthError, result.Outcome)
	s.Equal(StatusError, s.accounts.State().Status)
}
