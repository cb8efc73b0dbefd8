package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType is the backend's account kind
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

var ErrInvalidAccountType = errors.New("invalid account type")

// ParseAccountType accepts an account type in any letter case
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidAccountType
	}
	return t, nil
}

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings:
		return true
	default:
		return false
	}
}

// Owner is the client an account belongs to, copied onto each account when
// the client-major listing is flattened
type Owner struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (o Owner) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// Account is a balance-bearing ledger entity identified by its account number
type Account struct {
	ID            int64           `json:"id,omitempty"`
	AccountNumber string          `json:"accountNumber"`
	Type          AccountType     `json:"type"`
	Balance       decimal.Decimal `json:"balance"`
	Owner         Owner           `json:"owner"`
}

// Client is the backend's customer entity; it owns accounts
type Client struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	Accounts    []Account `json:"accounts"`
}

func (c Client) Owner() Owner {
	return Owner{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName}
}

// FlattenClients turns the client-major listing into an account-major one.
// Client order is kept, then each client's account order; every account is
// tagged with exactly its enclosing client as owner.
func FlattenClients(clients []Client) []Account {
	total := 0
	for _, c := range clients {
		total += len(c.Accounts)
	}

	accounts := make([]Account, 0, total)
	for _, c := range clients {
		owner := c.Owner()
		for _, a := range c.Accounts {
			a.Owner = owner
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// FindAccount returns the account with the given number
func FindAccount(accounts []Account, accountNumber string) (Account, bool) {
	for _, a := range accounts {
		if a.AccountNumber == accountNumber {
			return a, true
		}
	}
	return Account{}, false
}
