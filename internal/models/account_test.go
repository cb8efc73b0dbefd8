package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input   string
		want    AccountType
		wantErr bool
	}{
		{input: "CHECKING", want: AccountTypeChecking},
		{input: "savings", want: AccountTypeSavings},
		{input: " Savings ", want: AccountTypeSavings},
		{input: "credit", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccountType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlattenClients_ClientMajorOrder(t *testing.T) {
	sizes := []int{2, 0, 3, 1}
	clients := make([]Client, 0, len(sizes))
	expected := 0
	for i, n := range sizes {
		c := Client{ID: int64(i + 1), FirstName: gofakeit.FirstName(), LastName: gofakeit.LastName()}
		for j := 0; j < n; j++ {
			c.Accounts = append(c.Accounts, Account{
				AccountNumber: fmt.Sprintf("ACC-%d-%d", i, j),
				Type:          AccountTypeChecking,
				Balance:       decimal.NewFromInt(int64(j * 10)),
			})
		}
		expected += n
		clients = append(clients, c)
	}
	clients[1].Accounts = nil

	accounts := FlattenClients(clients)
	require.Len(t, accounts, expected)

	idx := 0
	for i, n := range sizes {
		for j := 0; j < n; j++ {
			a := accounts[idx]
			assert.Equal(t, fmt.Sprintf("ACC-%d-%d", i, j), a.AccountNumber)
			assert.Equal(t, clients[i].ID, a.Owner.ID)
			assert.Equal(t, clients[i].FirstName, a.Owner.FirstName)
			assert.Equal(t, clients[i].LastName, a.Owner.LastName)
			idx++
		}
	}
}

func TestFlattenClients_OverridesNestedOwner(t *testing.T) {
	body := `[{"id":7,"firstName":"Ama","lastName":"Mensah","accounts":[
		{"accountNumber":"A1","type":"SAVINGS","balance":12.50,"owner":{"id":99,"firstName":"X","lastName":"Y"}}
	]}]`

	var clients []Client
	require.NoError(t, json.Unmarshal([]byte(body), &clients))

	accounts := FlattenClients(clients)
	require.Len(t, accounts, 1)
	assert.Equal(t, Owner{ID: 7, FirstName: "Ama", LastName: "Mensah"}, accounts[0].Owner)
	assert.True(t, decimal.RequireFromString("12.5").Equal(accounts[0].Balance))
	assert.Equal(t, "Ama Mensah", accounts[0].Owner.FullName())
}

func TestFlattenClients_Empty(t *testing.T) {
	assert.Empty(t, FlattenClients(nil))
	assert.NotNil(t, FlattenClients(nil))
}

func TestFindAccount(t *testing.T) {
	accounts := []Account{{AccountNumber: "A"}, {AccountNumber: "B"}}

	found, ok := FindAccount(accounts, "B")
	assert.True(t, ok)
	assert.Equal(t, "B", found.AccountNumber)

	_, ok = FindAccount(accounts, "C")
	assert.False(t, ok)
}
