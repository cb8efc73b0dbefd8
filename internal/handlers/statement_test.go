package handlers

import (
	"bytes"
	"strings"
	"testing"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFixture() []TransactionView {
	return []TransactionView{
		{
			ID:                 1,
			Type:               models.TransactionTypeDeposit,
			Amount:             dto.NewMoney(decimal.NewFromInt(100)),
			Timestamp:          "2024-01-05T10:00:00",
			DestinationAccount: "FR01",
			Description:        "salary, january",
		},
		{
			ID:                 2,
			Type:               models.TransactionTypeTransfer,
			Amount:             dto.NewMoney(decimal.RequireFromString("12.5")),
			Timestamp:          "2024-01-06T11:30:00",
			SourceAccount:      "FR01",
			DestinationAccount: "FR02",
		},
	}
}

func TestRenderStatementCSV(t *testing.T) {
	csv := renderStatementCSV(statementFixture())
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "id,type,amount,timestamp,sourceAccount,destinationAccount,description", lines[0])
	assert.Equal(t, "1,DEPOSIT,100.00,2024-01-05T10:00:00,,FR01,salary  january", lines[1])
	assert.Equal(t, "2,TRANSFER,12.50,2024-01-06T11:30:00,FR01,FR02,", lines[2])
}

func TestRenderStatementCSV_Empty(t *testing.T) {
	assert.Equal(t, csvStatementHeader, renderStatementCSV(nil))
}

func TestRenderStatementPDF(t *testing.T) {
	account := AccountView{
		AccountNumber: "FR7612345",
		Balance:       dto.NewMoney(decimal.NewFromInt(250)),
		Owner:         &OwnerView{FirstName: "Ama", LastName: "Mensah"},
	}

	pdf := renderStatementPDF(account, statementFixture())

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.4\n")))
	assert.True(t, bytes.HasSuffix(pdf, []byte("%EOF\n")))
	assert.Contains(t, string(pdf), "(Statement for account: FR7612345)")
	assert.Contains(t, string(pdf), "(Owner: Ama Mensah    Balance: 250.00)")
	assert.Contains(t, string(pdf), "/Count 1")
	assert.Greater(t, len(pdf), 100)
}

func TestRenderStatementPDF_Paginates(t *testing.T) {
	entries := make([]TransactionView, 0, 120)
	for i := 0; i < 120; i++ {
		entries = append(entries, statementFixture()[1])
	}

	pdf := renderStatementPDF(AccountView{AccountNumber: "FR1"}, entries)
	assert.Contains(t, string(pdf), "/Count 3")
	assert.Contains(t, string(pdf), "(Owner:     Balance: 0.00)")
}

func TestEscapePDFText(t *testing.T) {
	assert.Equal(t, `a\(b\)\\c`, escapePDFText(`a(b)\c`))
}
