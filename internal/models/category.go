package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpendingCategory bounds the card purchase amounts generated for a category
type SpendingCategory struct {
	Name      string
	MinAmount float64
	MaxAmount float64
}

// SpendingCategories are the purchase kinds demo history is drawn from
var SpendingCategories = []SpendingCategory{
	{"Groceries", 15, 250},
	{"Dining", 8, 120},
	{"Transportation", 10, 80},
	{"Shopping", 25, 450},
	{"Entertainment", 10, 60},
	{"Utilities", 50, 250},
	{"Healthcare", 20, 300},
}

// HistoricalEntry is one generated movement on a single account, posted
// with its own timestamp instead of the time it is recorded
type HistoricalEntry struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Timestamp   time.Time
	Description string
}
