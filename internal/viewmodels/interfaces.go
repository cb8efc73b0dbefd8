package viewmodels

import (
	"context"

	"ega-bank-client/internal/models"

	"github.com/shopspring/decimal"
)

// AccountsViewModelInterface is the accounts screen's intent surface
type AccountsViewModelInterface interface {
	State() AccountsState
	Load(ctx context.Context) Result
	Refresh(ctx context.Context) Result
	CreateAccount(ctx context.Context, clientID int64, accountType string) Result
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) Result
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) Result
	OpenTransfer(accountNumber string)
	UpdateTransferForm(to string, amount decimal.Decimal)
	ExecuteTransfer(ctx context.Context, from, to string, amount decimal.Decimal) Result
	CloseTransfer()
	OpenHistory(ctx context.Context, accountNumber string) Result
	ChangeDateRange(r models.DateRange) Result
	LoadTransactions(ctx context.Context, accountNumber string) Result
	CloseHistory()
	DownloadStatement(ctx context.Context, accountNumber string, format models.StatementFormat) Result
	Logout(ctx context.Context) Result
}

// LoginViewModelInterface is the login screen's intent surface
type LoginViewModelInterface interface {
	State() LoginState
	ShowRegister(show bool)
	Login(ctx context.Context, username, password string) Result
	Register(ctx context.Context, username, password string) Result
}
