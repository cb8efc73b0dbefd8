package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/viewmodels"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ega-bank-client/internal/commands.Version=..."
var Version = "dev"

// options carries what commands need from the process. Tests swap the
// config loader and the output streams.
type options struct {
	loadConfig func() (*config.Config, error)
	out        io.Writer
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{loadConfig: config.Load, out: os.Stdout})
}

func newRootCommand(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankcli",
		Short:   "EGA Bank client",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(opts.out)

	rootCmd.AddCommand(
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newStatusCommand(opts),
		newAccountsCommand(opts),
		newCreateAccountCommand(opts),
		newDepositCommand(opts),
		newWithdrawCommand(opts),
		newTransferCommand(opts),
		newHistoryCommand(opts),
		newStatementCommand(opts),
		newStubServerCommand(opts),
	)

	return rootCmd
}

// withApp loads config, builds the dependencies, runs fn and closes them
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, cfg.Logging.NewLogger())
	if err != nil {
		return err
	}

	runErr := fn(ctx, a)
	if closeErr := a.Close(); closeErr != nil {
		a.logger.WarnContext(ctx, "cleanup failed", slog.String("error", closeErr.Error()))
	}
	return runErr
}

// ResultError is returned for intents that did not succeed; its message is
// the one the user should see
type ResultError struct {
	Result viewmodels.Result
}

func (e *ResultError) Error() string {
	if e.Result.Message != "" {
		return e.Result.Message
	}
	return e.Result.Outcome.String()
}

// check turns a non-success result into a ResultError
func check(result viewmodels.Result) error {
	if result.OK() {
		return nil
	}
	return &ResultError{Result: result}
}
