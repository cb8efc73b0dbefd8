package stub

import (
	"fmt"
	"time"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/handlers"
	"ega-bank-client/internal/models"
	"ega-bank-client/internal/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// DemoOpeningBalance is credited to the demo checking account
var DemoOpeningBalance = decimal.NewFromInt(1000)

// Seed registers username and gives it a client with a funded checking
// account and an empty savings account. Client details are generated from
// seed so repeated runs produce the same customer.
func (s *Server) Seed(username, password string, seed uint64) (handlers.ClientView, error) {
	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return handlers.ClientView{}, fmt.Errorf("hashing demo password: %w", err)
	}
	if err := s.Ledger.AddUser(username, hash, []string{handlers.RoleUser}); err != nil {
		return handlers.ClientView{}, fmt.Errorf("adding demo user: %w", err)
	}

	faker := gofakeit.New(seed)
	birthDate := faker.DateRange(
		time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	client := s.Ledger.CreateClient(dto.CreateClientRequest{
		FirstName:   faker.FirstName(),
		LastName:    faker.LastName(),
		BirthDate:   birthDate.Format("2006-01-02"),
		Gender:      faker.Gender(),
		Address:     faker.Street() + ", " + faker.City(),
		Phone:       faker.Phone(),
		Email:       faker.Email(),
		Nationality: faker.Country(),
	})

	checking, err := s.Ledger.CreateAccount(client.ID, models.AccountTypeChecking)
	if err != nil {
		return handlers.ClientView{}, err
	}
	if _, err := s.Ledger.CreateAccount(client.ID, models.AccountTypeSavings); err != nil {
		return handlers.ClientView{}, err
	}
	if _, err := s.Ledger.Deposit(checking.AccountNumber, DemoOpeningBalance); err != nil {
		return handlers.ClientView{}, err
	}

	for _, c := range s.Ledger.Clients() {
		if c.ID == client.ID {
			return c, nil
		}
	}
	return client, nil
}

// SeedHistory backfills count generated purchases over the last days on an
// account, plus salary deposits. It returns how many entries were posted.
func (s *Server) SeedHistory(accountNumber string, count, days int, seed uint64) (int, error) {
	account, ok := s.Ledger.Account(accountNumber)
	if !ok {
		return 0, handlers.ErrAccountNotFound
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	history := services.NewTransactionGenerator(seed).GenerateHistoricalTransactions(start, end, account.Balance.Decimal(), count)
	return s.Ledger.Backfill(accountNumber, history)
}
