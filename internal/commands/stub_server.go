package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ega-bank-client/internal/stub"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	seedHistoryDays = 60
)

func newStubServerCommand(opts *options) *cobra.Command {
	var (
		addr         string
		seedUser     string
		seedPassword string
		seed         uint64
		history      int
	)

	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Run an in-memory bank backend for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger := cfg.Logging.NewLogger()
			if addr == "" {
				addr = cfg.Stub.Addr
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			server := stub.NewServer(cfg.Stub, logger, prometheus.NewRegistry())
			if seedUser != "" {
				client, err := server.Seed(seedUser, seedPassword, seed)
				if err != nil {
					return fmt.Errorf("seeding demo data: %w", err)
				}
				for _, a := range client.Accounts {
					fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s %s for %s\n", a.Type, a.AccountNumber, seedUser)
				}
				if history > 0 && len(client.Accounts) > 0 {
					posted, err := server.SeedHistory(client.Accounts[0].AccountNumber, history, seedHistoryDays, seed)
					if err != nil {
						return fmt.Errorf("seeding demo history: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d transactions on %s\n", posted, client.Accounts[0].AccountNumber)
				}
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Serve(addr)
			}()
			logger.Info("stub backend listening", slog.String("addr", addr))

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			logger.Info("stub backend stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default STUB_ADDR)")
	cmd.Flags().StringVar(&seedUser, "seed-user", "", "register this user with a demo client and accounts")
	cmd.Flags().StringVar(&seedPassword, "seed-password", "password123", "password for --seed-user")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for the demo data")
	cmd.Flags().IntVar(&history, "seed-history", 0, "generate this many past purchases on the demo checking account")

	return cmd
}
