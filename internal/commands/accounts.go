package commands

import (
	"context"
	"fmt"

	"ega-bank-client/internal/viewmodels"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAccountsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts visible to the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				vm := a.accountsViewModel()
				if err := check(vm.Load(ctx)); err != nil {
					return err
				}
				return printAccounts(cmd.OutOrStdout(), vm.State().Accounts)
			})
		},
	}
}

func newCreateAccountCommand(opts *options) *cobra.Command {
	var (
		clientID    int64
		accountType string
	)

	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Open an account for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				return runMutation(ctx, cmd, a.accountsViewModel(), func(vm viewmodels.AccountsViewModelInterface) viewmodels.Result {
					return vm.CreateAccount(ctx, clientID, accountType)
				})
			})
		},
	}

	cmd.Flags().Int64Var(&clientID, "client-id", 0, "owning client id")
	cmd.Flags().StringVar(&accountType, "type", "CHECKING", "account type: CHECKING or SAVINGS")
	_ = cmd.MarkFlagRequired("client-id")

	return cmd
}

func newDepositCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <account> <amount>",
		Short: "Credit an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				return runMutation(ctx, cmd, a.accountsViewModel(), func(vm viewmodels.AccountsViewModelInterface) viewmodels.Result {
					return vm.Deposit(ctx, args[0], amount)
				})
			})
		},
	}
}

func newWithdrawCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <account> <amount>",
		Short: "Debit an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				return runMutation(ctx, cmd, a.accountsViewModel(), func(vm viewmodels.AccountsViewModelInterface) viewmodels.Result {
					return vm.Withdraw(ctx, args[0], amount)
				})
			})
		},
	}
}

func newTransferCommand(opts *options) *cobra.Command {
	var from, to, rawAmount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := parseAmount(rawAmount)
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				return runMutation(ctx, cmd, a.accountsViewModel(), func(vm viewmodels.AccountsViewModelInterface) viewmodels.Result {
					vm.OpenTransfer(from)
					vm.UpdateTransferForm(to, amount)
					return vm.ExecuteTransfer(ctx, from, to, amount)
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source account number")
	cmd.Flags().StringVar(&to, "to", "", "destination account number")
	cmd.Flags().StringVar(&rawAmount, "amount", "", "amount to move")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// runMutation runs one intent then prints its message and the refreshed list
func runMutation(
	ctx context.Context,
	cmd *cobra.Command,
	vm viewmodels.AccountsViewModelInterface,
	intent func(viewmodels.AccountsViewModelInterface) viewmodels.Result,
) error {
	result := intent(vm)
	if err := check(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	return printAccounts(out, vm.State().Accounts)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
