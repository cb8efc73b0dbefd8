package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/handlers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
	client handlers.ClientView
	token  string
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	cfg := config.StubConfig{JWTSecret: "test-secret", TokenTTL: time.Hour, BCryptCost: bcrypt.MinCost}
	s.server = NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())

	client, err := s.server.Seed("demo", "demo-pass", 7)
	s.Require().NoError(err)
	s.client = client

	token, _, err := s.server.Tokens.GenerateAccessToken("demo", []string{handlers.RoleUser})
	s.Require().NoError(err)
	s.token = token
}

func (s *ServerTestSuite) do(method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestSeed() {
	s.Equal(DemoOpeningBalance.String(), s.client.Accounts[0].Balance.Decimal().String())
	s.Len(s.client.Accounts, 2)
	s.NotEmpty(s.client.FirstName)
}

func (s *ServerTestSuite) TestLoginFlow() {
	rec := s.do(http.MethodPost, "/api/auth/login", `{"username":"demo","password":"demo-pass"}`, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var login dto.TokenResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &login))
	s.NotEmpty(login.Token)

	rec = s.do(http.MethodGet, "/api/clients", "", login.Token)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), s.client.Accounts[0].AccountNumber)
}

func (s *ServerTestSuite) TestProtectedRoutes() {
	s.Run("missing token is forbidden", func() {
		rec := s.do(http.MethodGet, "/api/clients", "", "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("invalid token is unauthorized", func() {
		rec := s.do(http.MethodGet, "/api/clients", "", "garbage")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.JSONEq(`{"error":"Invalid or expired token"}`, rec.Body.String())
	})

	s.Run("query token is ignored outside statements", func() {
		rec := s.do(http.MethodGet, "/api/clients?auth="+s.token, "", "")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ServerTestSuite) TestStatementAcceptsQueryToken() {
	account := s.client.Accounts[0].AccountNumber
	start := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

	rec := s.do(http.MethodGet, "/api/accounts/"+account+"/statement?start="+start+"&end="+end+"&auth="+s.token, "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "DEPOSIT,1000.00")

	rec = s.do(http.MethodGet, "/api/accounts/"+account+"/statement.pdf?start="+start+"&end="+end+"&auth="+s.token, "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/pdf", rec.Header().Get("Content-Type"))
}

func (s *ServerTestSuite) TestTransferRoute() {
	body := `{"fromAccount":"` + s.client.Accounts[0].AccountNumber +
		`","toAccount":"` + s.client.Accounts[1].AccountNumber + `","amount":250}`

	rec := s.do(http.MethodPost, "/api/accounts/transfer", body, s.token)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"type":"TRANSFER"`)

	savings, ok := s.server.Ledger.Account(s.client.Accounts[1].AccountNumber)
	s.True(ok)
	s.Equal("250", savings.Balance.Decimal().String())
}

func (s *ServerTestSuite) TestGenerateTestDataRoute() {
	account := s.client.Accounts[0].AccountNumber

	rec := s.do(http.MethodPost, "/api/dev/accounts/"+account+"/generate-test-data?count=10&days=20", "", "")
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/dev/accounts/"+account+"/generate-test-data?count=10&days=20", "", s.token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body handlers.GenerateTestDataResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Positive(body.TransactionsCreated)

	entries, err := s.server.Ledger.Transactions(account, time.Now().AddDate(0, 0, -21), time.Now().Add(time.Minute))
	s.Require().NoError(err)
	s.Len(entries, body.TransactionsCreated+1)
}

func (s *ServerTestSuite) TestSeedHistory() {
	account := s.client.Accounts[0].AccountNumber

	posted, err := s.server.SeedHistory(account, 25, 30, 9)
	s.Require().NoError(err)
	s.GreaterOrEqual(posted, 25)

	view, ok := s.server.Ledger.Account(account)
	s.Require().True(ok)
	s.True(view.Balance.Decimal().GreaterThanOrEqual(decimal.NewFromInt(50)))

	_, err = s.server.SeedHistory("FR0", 5, 30, 9)
	s.ErrorIs(err, handlers.ErrAccountNotFound)
}

func (s *ServerTestSuite) TestUnknownRouteUsesErrorShape() {
	rec := s.do(http.MethodGet, "/nowhere", "", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"Not Found"}`, rec.Body.String())
	s.NotEmpty(rec.Header().Get("X-Trace-ID"))
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *ServerTestSuite) TestHealthAndMetrics() {
	rec := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"accounts":2`)

	s.do(http.MethodGet, "/nowhere", "", "")
	rec = s.do(http.MethodGet, "/metrics", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `stub_http_errors_total`)
}

func (s *ServerTestSuite) TestAuthRoutesAreRateLimited() {
	limited := false
	for i := 0; i < authRateLimitBurst+5; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", `{"username":"demo","password":"wrong"}`, "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			s.JSONEq(`{"error":"Too many requests"}`, rec.Body.String())
			break
		}
		s.Equal(http.StatusUnauthorized, rec.Code)
	}
	s.True(limited)
}
