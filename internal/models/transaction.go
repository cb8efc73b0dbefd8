package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the backend's ledger entry kind
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer    TransactionType = "TRANSFER"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
)

// Transaction is one immutable ledger entry of a single account
type Transaction struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   Timestamp       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
}

// Timestamp decodes the instant formats the backend emits: RFC 3339 with or
// without a zone (zone-less values are taken as UTC) and the numeric
// [year, month, day, hour, minute, second, nanos] array form.
type Timestamp struct {
	time.Time
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		return t.unmarshalParts(data)
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}

	for _, layout := range zonelessLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

func (t *Timestamp) unmarshalParts(data []byte) error {
	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("timestamp: expected at least 3 parts, got %d", len(parts))
	}

	padded := make([]int, 7)
	copy(padded, parts)
	t.Time = time.Date(padded[0], time.Month(padded[1]), padded[2], padded[3], padded[4], padded[5], padded[6], time.UTC)
	return nil
}
