package dto

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount encoded as a bare JSON number
type Money decimal.Decimal

func NewMoney(d decimal.Decimal) Money {
	return Money(d)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// Account Request DTOs

// CreateAccountRequest represents the request payload for creating a new account
type CreateAccountRequest struct {
	ClientID int64  `json:"clientId" validate:"required,gt=0"`
	Type     string `json:"type" validate:"required,account_type"`
}

// AmountRequest is the deposit and withdraw payload
type AmountRequest struct {
	Amount Money `json:"amount" validate:"positive_amount"`
}

// TransferRequest represents the request payload for transferring funds between accounts
type TransferRequest struct {
	FromAccount string `json:"fromAccount" validate:"required"`
	ToAccount   string `json:"toAccount" validate:"required"`
	Amount      Money  `json:"amount" validate:"positive_amount"`
}
