package services

import (
	"slices"
	"time"

	"ega-bank-client/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const (
	minBalanceThreshold = 50
	hoursInDay          = 24
	biWeeklyDays        = 14
	salaryHour          = 9
	businessHoursStart  = 6
	businessHoursEnd    = 23

	// feeChance and refundChance are out of 100
	feeChance    = 5
	refundChance = 35
)

var feeAmounts = []float64{2.50, 3.00, 5.00, 10.00, 15.00}

type transactionGenerator struct {
	faker *gofakeit.Faker
}

// NewTransactionGenerator creates a generator; the same seed yields the same history
func NewTransactionGenerator(seed uint64) TransactionGeneratorInterface {
	return &transactionGenerator{faker: gofakeit.New(seed)}
}

// GenerateHistoricalTransactions returns count card purchases, refunds and
// fees spread over [startDate, endDate], plus a salary deposit every two weeks,
// oldest first. A purchase that would take the balance below the minimum
// becomes a deposit, so replaying the result never overdraws.
func (g *transactionGenerator) GenerateHistoricalTransactions(
	startDate, endDate time.Time,
	startingBalance decimal.Decimal,
	count int,
) []models.HistoricalEntry {
	if count <= 0 || !endDate.After(startDate) {
		return []models.HistoricalEntry{}
	}

	entries := g.generateSalaryDeposits(startDate, endDate)
	for i := 0; i < count; i++ {
		entries = append(entries, g.generatePurchase(startDate, endDate))
	}

	slices.SortStableFunc(entries, func(a, b models.HistoricalEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	keepAboveMinimum(entries, startingBalance)

	return entries
}

func (g *transactionGenerator) generateSalaryDeposits(startDate, endDate time.Time) []models.HistoricalEntry {
	salary := decimal.NewFromInt(int64(g.faker.IntRange(25, 45) * 100))
	employer := g.faker.Company()

	var entries []models.HistoricalEntry
	for day := startDate.AddDate(0, 0, biWeeklyDays); !day.After(endDate); day = day.AddDate(0, 0, biWeeklyDays) {
		ts := time.Date(day.Year(), day.Month(), day.Day(), salaryHour, 0, 0, 0, time.UTC)
		if ts.After(endDate) {
			break
		}
		entries = append(entries, models.HistoricalEntry{
			Type:        models.TransactionTypeDeposit,
			Amount:      salary,
			Timestamp:   ts,
			Description: "Salary - " + employer,
		})
	}
	return entries
}

func (g *transactionGenerator) generatePurchase(startDate, endDate time.Time) models.HistoricalEntry {
	ts := g.generateTimestamp(startDate, endDate)

	roll := g.faker.IntRange(0, 99)
	if roll < feeChance {
		return models.HistoricalEntry{
			Type:        models.TransactionTypeWithdrawal,
			Amount:      decimal.NewFromFloat(feeAmounts[g.faker.IntRange(0, len(feeAmounts)-1)]),
			Timestamp:   ts,
			Description: "Service fee",
		}
	}

	category := models.SpendingCategories[g.faker.IntRange(0, len(models.SpendingCategories)-1)]
	amount := decimal.NewFromFloat(g.faker.Float64Range(category.MinAmount, category.MaxAmount)).Round(2)
	merchant := g.faker.Company()

	if roll < feeChance+refundChance {
		return models.HistoricalEntry{
			Type:        models.TransactionTypeDeposit,
			Amount:      amount,
			Timestamp:   ts,
			Description: "Refund - " + merchant,
		}
	}
	return models.HistoricalEntry{
		Type:        models.TransactionTypeWithdrawal,
		Amount:      amount,
		Timestamp:   ts,
		Description: category.Name + " - " + merchant,
	}
}

// generateTimestamp picks a day in the range and a time within business hours
func (g *transactionGenerator) generateTimestamp(startDate, endDate time.Time) time.Time {
	span := endDate.Sub(startDate)
	offset := time.Duration(g.faker.Float64Range(0, float64(span)))
	day := startDate.Add(offset).UTC()

	ts := time.Date(day.Year(), day.Month(), day.Day(),
		g.faker.IntRange(businessHoursStart, businessHoursEnd),
		g.faker.IntRange(0, 59),
		g.faker.IntRange(0, 59),
		0, time.UTC)

	if ts.Before(startDate) {
		return startDate.UTC()
	}
	if ts.After(endDate) {
		return endDate.UTC()
	}
	return ts
}

// keepAboveMinimum turns withdrawals that would breach the threshold into
// deposits, walking the entries in order
func keepAboveMinimum(entries []models.HistoricalEntry, startingBalance decimal.Decimal) {
	minBalance := decimal.NewFromInt(minBalanceThreshold)
	balance := startingBalance

	for i := range entries {
		if entries[i].Type == models.TransactionTypeWithdrawal {
			if balance.Sub(entries[i].Amount).GreaterThanOrEqual(minBalance) {
				balance = balance.Sub(entries[i].Amount)
				continue
			}
			entries[i].Type = models.TransactionTypeDeposit
			entries[i].Description = "Direct deposit"
		}
		balance = balance.Add(entries[i].Amount)
	}
}
