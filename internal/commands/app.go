package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/database"
	"ega-bank-client/internal/repositories"
	"ega-bank-client/internal/services"
	"ega-bank-client/internal/viewmodels"

	"github.com/prometheus/client_golang/prometheus"
)

// app holds the dependencies one command invocation needs
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  services.MetricsRecorderInterface
	session  services.SessionStoreInterface
	api      services.BankingAPIClientInterface
	closers  []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.metrics = services.NewPrometheusMetrics(a.registry)

	storage, err := a.tokenStorage(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.session = services.NewSessionStore(storage, cfg.Session.Key, logger)

	breaker := services.NewCircuitBreaker(services.CircuitBreakerConfig{
		MaxFailures:     cfg.API.CircuitBreakerFailures,
		ResetTimeout:    cfg.API.CircuitBreakerReset,
		HalfOpenMaxSucc: 1,
	})
	a.api = services.NewBankingAPIClient(&cfg.API, a.session, breaker, a.metrics, logger)

	return a, nil
}

// tokenStorage opens the configured session backend
func (a *app) tokenStorage(ctx context.Context) (services.TokenStorageInterface, error) {
	switch a.cfg.Session.Backend {
	case config.SessionBackendMemory:
		return services.NewMemoryTokenStorage(), nil

	case config.SessionBackendSQLite, config.SessionBackendPostgres:
		db, err := database.Initialize(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("opening session database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return services.NewRepositoryTokenStorage(repositories.NewSessionRepository(db.DB)), nil

	case config.SessionBackendRedis:
		client := services.NewRedisClient(a.cfg.Session.RedisAddr, a.cfg.Session.RedisPassword)
		a.closers = append(a.closers, client.Close)
		return services.NewRedisTokenStorage(client, a.cfg.Session.RedisNamespace), nil

	default:
		return nil, fmt.Errorf("unsupported session backend %q", a.cfg.Session.Backend)
	}
}

func (a *app) loginViewModel() viewmodels.LoginViewModelInterface {
	return viewmodels.NewLoginViewModel(a.api, a.session, a.metrics, a.logger)
}

func (a *app) accountsViewModel() viewmodels.AccountsViewModelInterface {
	return viewmodels.NewAccountsViewModel(a.api, a.session, a.metrics, a.logger)
}

// Close writes the metrics text file when configured and releases storage
func (a *app) Close() error {
	var errs []error
	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics to %s: %w", path, err))
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
