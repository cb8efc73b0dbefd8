package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ega-bank-client/internal/models"

	"github.com/spf13/cobra"
)

// rangeFlags is the optional --start/--end pair shared by history and statement
type rangeFlags struct {
	start string
	end   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "range start, YYYY-MM-DD or RFC 3339 (default 30 days ago)")
	cmd.Flags().StringVar(&f.end, "end", "", "range end, YYYY-MM-DD or RFC 3339 (default now)")
}

func (f *rangeFlags) set() bool {
	return f.start != "" || f.end != ""
}

// dateRange fills a missing bound from the default window. A date-only end
// covers that whole day.
func (f *rangeFlags) dateRange(now time.Time) (models.DateRange, error) {
	r := models.LastWindow(now, models.DefaultHistoryWindow)

	if f.start != "" {
		start, _, err := parseRangeBound(f.start)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid --start: %w", err)
		}
		r.Start = start
	}
	if f.end != "" {
		end, dateOnly, err := parseRangeBound(f.end)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid --end: %w", err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Second)
		}
		r.End = end
	}
	return r, nil
}

func parseRangeBound(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", raw)
	}
	return t, true, nil
}

func newHistoryCommand(opts *options) *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "history <account>",
		Short: "List an account's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountNumber := args[0]
			r, err := flags.dateRange(time.Now())
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				vm := a.accountsViewModel()
				if err := check(vm.OpenHistory(ctx, accountNumber)); err != nil {
					return err
				}

				if flags.set() {
					if err := check(vm.ChangeDateRange(r)); err != nil {
						return err
					}
					if err := check(vm.LoadTransactions(ctx, accountNumber)); err != nil {
						return err
					}
				}

				state := vm.State()
				return printTransactions(cmd.OutOrStdout(), accountNumber, state.DateRange, state.Transactions)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newStatementCommand(opts *options) *cobra.Command {
	var (
		flags  rangeFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "statement <account>",
		Short: "Build a statement link, or download it with --output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statementFormat, err := models.ParseStatementFormat(format)
			if err != nil {
				return err
			}
			r, err := flags.dateRange(time.Now())
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app) error {
				vm := a.accountsViewModel()
				if err := check(vm.ChangeDateRange(r)); err != nil {
					return err
				}

				result := vm.DownloadStatement(ctx, args[0], statementFormat)
				if err := check(result); err != nil {
					return err
				}

				if output == "" {
					fmt.Fprintln(cmd.OutOrStdout(), result.URL)
					return nil
				}

				n, err := downloadStatement(ctx, a.cfg.API.Timeout, result.URL, output)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", n, output)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(models.StatementFormatPDF), "statement format: pdf or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the statement to this file instead of printing the link")

	return cmd
}

// downloadStatement fetches the self-authenticating statement link the way a
// browser would, without the session transport
func downloadStatement(ctx context.Context, timeout time.Duration, url, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading statement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("downloading statement: unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
