package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ega-bank-client/internal/models"
)

const msgNoAccounts = "No accounts found. Create one with: bankcli create-account"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printAccounts(w io.Writer, accounts []models.Account) error {
	if len(accounts) == 0 {
		_, err := fmt.Fprintln(w, msgNoAccounts)
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ACCOUNT\tTYPE\tBALANCE\tOWNER")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.AccountNumber, a.Type, a.Balance.StringFixed(2), a.Owner.FullName())
	}
	return tw.Flush()
}

func printTransactions(w io.Writer, accountNumber string, r models.DateRange, transactions []models.Transaction) error {
	fmt.Fprintf(w, "Transactions for %s from %s to %s\n", accountNumber, r.Start.UTC().Format(time.DateOnly), r.End.UTC().Format(time.DateOnly))
	if len(transactions) == 0 {
		_, err := fmt.Fprintln(w, "No transactions in this period")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tTIMESTAMP\tDESCRIPTION")
	for _, t := range transactions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Type, t.Amount.StringFixed(2), t.Timestamp.UTC().Format(time.RFC3339), t.Description)
	}
	return tw.Flush()
}
