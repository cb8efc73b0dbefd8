package stub

import (
	"log/slog"
	"time"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/handlers"
	"ega-bank-client/internal/middleware"
	"ega-bank-client/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	authRateLimitPerSecond = 5
	authRateLimitBurst     = 10
)

// Server is an in-memory bank backend speaking the same HTTP contract as the
// real one. It backs local development and the client's integration tests.
type Server struct {
	*echo.Echo
	Ledger    *handlers.Ledger
	Tokens    services.TokenServiceInterface
	passwords services.PasswordServiceInterface
	limiter   *middleware.RateLimiter
}

// NewServer wires handlers, middleware and /metrics. reg receives the stub's
// own collectors and is served at /metrics.
func NewServer(cfg config.StubConfig, logger *slog.Logger, reg *prometheus.Registry) *Server {
	ledger := handlers.NewLedger()
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	passwords := services.NewPasswordService(cfg.BCryptCost)
	limiter := middleware.NewRateLimiter(authRateLimitPerSecond, authRateLimitBurst)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(logger, reg).Handle

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery(logger))
	e.Use(middleware.SecurityHeaders())

	health := handlers.NewHealthCheckHandler(ledger)
	auth := handlers.NewAuthHandler(ledger, tokens, passwords, logger)
	clients := handlers.NewClientHandler(ledger, logger)
	accounts := handlers.NewAccountHandler(ledger, logger)
	dev := handlers.NewDevHandler(ledger, services.NewTransactionGenerator(uint64(time.Now().UnixNano())), logger)

	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	authGroup := e.Group("/api/auth", limiter.Middleware())
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)

	requireAuth := middleware.RequireAuth(tokens, "")
	requireLinkAuth := middleware.RequireAuth(tokens, middleware.StatementTokenParam)

	e.GET("/api/clients", clients.ListClients, requireAuth)
	e.POST("/api/clients", clients.CreateClient, requireAuth)

	e.POST("/api/accounts", accounts.CreateAccount, requireAuth)
	e.POST("/api/accounts/transfer", accounts.Transfer, requireAuth)
	e.GET("/api/accounts/:accountNumber", accounts.GetAccount, requireAuth)
	e.POST("/api/accounts/:accountNumber/deposit", accounts.Deposit, requireAuth)
	e.POST("/api/accounts/:accountNumber/withdraw", accounts.Withdraw, requireAuth)
	e.GET("/api/accounts/:accountNumber/transactions", accounts.Transactions, requireAuth)
	e.GET("/api/accounts/:accountNumber/statement", accounts.StatementCSV, requireLinkAuth)
	e.GET("/api/accounts/:accountNumber/statement.pdf", accounts.StatementPDF, requireLinkAuth)

	e.POST("/api/dev/accounts/:accountNumber/generate-test-data", dev.GenerateTestData, requireAuth)

	return &Server{
		Echo:      e,
		Ledger:    ledger,
		Tokens:    tokens,
		passwords: passwords,
		limiter:   limiter,
	}
}

// Serve listens on addr until the server is shut down, dropping idle rate
// limiter entries in the background
func (s *Server) Serve(addr string) error {
	stop := make(chan struct{})
	defer close(stop)
	go s.limiter.RunCleanup(stop)

	return s.Start(addr)
}
