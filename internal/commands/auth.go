package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ega-bank-client/internal/services"

	"github.com/spf13/cobra"
)

const msgNotLoggedIn = "Not logged in"

func newLoginCommand(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				result := a.loginViewModel().Login(ctx, username, password)
				if err := check(result); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func newRegisterCommand(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a backend user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				result := a.loginViewModel().Register(ctx, username, password)
				if err := check(result); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				if err := check(a.accountsViewModel().Logout(ctx)); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

// newStatusCommand shows what the stored token says about the session.
// Claims are read without verification; the client never holds the key.
func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()

				token, ok := a.session.GetToken(ctx)
				if !ok {
					fmt.Fprintln(out, msgNotLoggedIn)
					return nil
				}

				info, err := services.NewTokenService("", 0).InspectToken(token)
				if errors.Is(err, services.ErrInvalidToken) {
					fmt.Fprintln(out, "Logged in (opaque token)")
					return nil
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "Logged in as %s\n", info.Subject)
				if info.Issuer != "" {
					fmt.Fprintf(out, "Issuer:  %s\n", info.Issuer)
				}
				if info.ExpiresAt != nil {
					state := "valid"
					if info.Expired(time.Now()) {
						state = "expired"
					}
					fmt.Fprintf(out, "Expires: %s (%s)\n", info.ExpiresAt.UTC().Format(time.RFC3339), state)
				}
				return nil
			})
		},
	}
}
