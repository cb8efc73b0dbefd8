package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339 utc", input: `"2024-01-15T10:30:00Z"`, want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "rfc3339 offset", input: `"2024-01-15T12:30:00+02:00"`, want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "zoneless with fraction", input: `"2024-01-15T10:30:00.123"`, want: time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC)},
		{name: "zoneless minutes", input: `"2024-01-15T10:30"`, want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "array form", input: `[2024,1,15,10,30,5]`, want: time.Date(2024, 1, 15, 10, 30, 5, 0, time.UTC)},
		{name: "null", input: `null`, want: time.Time{}},
		{name: "garbage", input: `"yesterday"`, wantErr: true},
		{name: "short array", input: `[2024,1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTransaction_Decode(t *testing.T) {
	body := `[{"id":1,"type":"DEPOSIT","amount":100.00,"timestamp":"2024-01-02T03:04:05"},
	          {"id":2,"type":"TRANSFER_OUT","amount":"25.5","timestamp":"2024-01-03T00:00:00Z","description":"rent"}]`

	var txs []Transaction
	require.NoError(t, json.Unmarshal([]byte(body), &txs))
	require.Len(t, txs, 2)

	assert.Equal(t, TransactionTypeDeposit, txs[0].Type)
	assert.Equal(t, "100", txs[0].Amount.String())
	assert.Equal(t, TransactionTypeTransferOut, txs[1].Type)
	assert.Equal(t, "25.5", txs[1].Amount.String())
	assert.Equal(t, "rent", txs[1].Description)
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	r := LastWindow(now, DefaultHistoryWindow)

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, now, r.End)
	assert.NoError(t, r.Validate())

	assert.ErrorIs(t, DateRange{Start: now}.Validate(), ErrIncompleteRange)
	assert.ErrorIs(t, DateRange{End: now}.Validate(), ErrIncompleteRange)
	assert.ErrorIs(t, DateRange{Start: now, End: now.Add(-time.Hour)}.Validate(), ErrInvertedRange)
	assert.True(t, DateRange{}.IsZero())

	local := time.FixedZone("WAT", 3600)
	assert.Equal(t, "2024-01-01T00:00:00Z", FormatInstant(time.Date(2024, 1, 1, 1, 0, 0, 0, local)))
	assert.Equal(t, "2024-01-01T00:00:00.735425Z", FormatInstant(time.Date(2024, 1, 1, 1, 0, 0, 735425000, local)))

	normalized := DateRange{Start: time.Date(2024, 1, 1, 1, 0, 0, 0, local), End: time.Date(2024, 1, 2, 1, 0, 0, 0, local)}.Normalized()
	assert.Equal(t, time.UTC, normalized.Start.Location())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), normalized.End)
}

func TestInteractionMode(t *testing.T) {
	m := TransferMode("A")
	assert.True(t, m.IsOpenFor(ModeTransfer, "A"))
	assert.False(t, m.IsOpenFor(ModeHistory, "A"))
	assert.False(t, m.IsOpenFor(ModeTransfer, "B"))
	assert.Equal(t, "TRANSFER", m.Kind.String())
	assert.Equal(t, "IDLE", IdleMode().Kind.String())
	assert.Equal(t, "HISTORY", HistoryMode("B").Kind.String())
}

func TestParseStatementFormat(t *testing.T) {
	f, err := ParseStatementFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, "/statement.pdf", f.PathSuffix())

	f, err = ParseStatementFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "/statement", f.PathSuffix())

	_, err = ParseStatementFormat("xlsx")
	assert.Error(t, err)
}
