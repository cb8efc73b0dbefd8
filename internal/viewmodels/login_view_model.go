package viewmodels

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	apperrors "ega-bank-client/internal/errors"
	"ega-bank-client/internal/services"
)

const MsgRegistrationSuccessful = "Registration successful! You can now login."

// LoginState is a snapshot of the login screen
type LoginState struct {
	ShowRegister bool
	Submitting   bool
	Message      string
}

// LoginViewModel exchanges credentials for a session. Only a successful
// login touches the session store.
type LoginViewModel struct {
	api     services.BankingAPIClientInterface
	session services.SessionStoreInterface
	metrics services.MetricsRecorderInterface
	logger  *slog.Logger

	mu    sync.Mutex
	state LoginState
}

func NewLoginViewModel(
	api services.BankingAPIClientInterface,
	session services.SessionStoreInterface,
	metrics services.MetricsRecorderInterface,
	logger *slog.Logger,
) LoginViewModelInterface {
	return &LoginViewModel{
		api:     api,
		session: session,
		metrics: metrics,
		logger:  logger,
	}
}

func (vm *LoginViewModel) State() LoginState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// ShowRegister toggles between the login and register forms
func (vm *LoginViewModel) ShowRegister(show bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state.ShowRegister = show
	vm.state.Message = ""
}

func (vm *LoginViewModel) Login(ctx context.Context, username, password string) Result {
	if !vm.begin() {
		return vm.finish("login", busy())
	}

	resp, err := vm.api.Login(ctx, username, password)
	if err != nil {
		return vm.finish("login", failure(err, services.MsgLoginFailed))
	}
	if resp == nil || strings.TrimSpace(resp.Token) == "" {
		return vm.finish("login", failure(apperrors.New(apperrors.DataMissingToken), services.MsgLoginFailed))
	}

	if err := vm.session.SaveToken(ctx, resp.Token); err != nil {
		vm.logger.ErrorContext(ctx, "failed to persist session", "error", err)
		return vm.finish("login", failure(err, services.MsgLoginFailed))
	}

	result := success("")
	result.Redirect = RouteAccounts
	return vm.finish("login", result)
}

func (vm *LoginViewModel) Register(ctx context.Context, username, password string) Result {
	if !vm.begin() {
		return vm.finish("register", busy())
	}

	if err := vm.api.Register(ctx, username, password); err != nil {
		return vm.finish("register", failure(err, services.MsgRegistrationFailed))
	}

	vm.mu.Lock()
	vm.state.ShowRegister = false
	vm.mu.Unlock()

	return vm.finish("register", success(MsgRegistrationSuccessful))
}

func (vm *LoginViewModel) begin() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.state.Submitting {
		return false
	}
	vm.state.Submitting = true
	vm.state.Message = ""
	return true
}

func (vm *LoginViewModel) finish(intent string, result Result) Result {
	vm.mu.Lock()
	if result.Outcome != OutcomeBusy {
		vm.state.Submitting = false
		vm.state.Message = result.Message
	}
	vm.mu.Unlock()

	vm.metrics.IncrementCounter("intent.result", map[string]string{
		"intent":  intent,
		"outcome": result.Outcome.String(),
	})
	return result
}
