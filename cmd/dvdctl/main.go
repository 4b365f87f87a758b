package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"dvd-rental-backend/internal/client"
	"dvd-rental-backend/internal/rentals"
)

const defaultLogLevel = "warning"

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelWarn)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(logger, &levelVar)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

type globalOpts struct {
	server  string
	timeout time.Duration
}

func (o *globalOpts) client() *client.Client { return client.New(o.server, o.timeout) }

func newRootCommand(logger *slog.Logger, levelVar *slog.LevelVar) *cobra.Command {
	opts := &globalOpts{}
	logLevel := defaultLogLevel

	root := &cobra.Command{
		Use:           "dvdctl",
		Short:         "Command line client for the DVD rental service",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	defaultServer := os.Getenv("DVD_API_URL")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "Base URL of the rental service")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP request timeout")
	root.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "Set log verbosity (debug, info, warning, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		if levelVar != nil {
			levelVar.Set(level)
		}
		logger.Debug("using server", "url", opts.server)
		return nil
	}

	root.AddCommand(
		newRentCommand(opts),
		newReturnCommand(opts),
		newCancelCommand(opts),
		newReportCommand(opts),
	)
	return root
}

func newRentCommand(opts *globalOpts) *cobra.Command {
	var in rentals.CreateRentalRequest

	cmd := &cobra.Command{
		Use:   "rent",
		Short: "Register a new rental",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.client().Rent(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("rent: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rental %d created for %s (%s)\n", r.ID, r.Customer, r.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&in.Title, "title", "", "DVD title")
	cmd.Flags().StringVar(&in.StaffID, "staff", "", "Staff ID processing the rental")
	cmd.Flags().Float64Var(&in.Cost, "cost", 0, "Rental cost")
	return cmd
}

func newReturnCommand(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Mark a rental as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := opts.client().Return(cmd.Context(), id)
			if err != nil {
				return rentalError("return", id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func newCancelCommand(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel and remove a rental",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := opts.client().Cancel(cmd.Context(), id)
			if err != nil {
				return rentalError("cancel", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d removed)\n", res.Message, res.Removed)
			return nil
		},
	}
}

func newReportCommand(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rental reports",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "customer <name>",
			Short: "List rentals of a customer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := opts.client().ByCustomer(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("report customer: %w", err)
				}
				return printRentals(cmd.OutOrStdout(), rs)
			},
		},
		&cobra.Command{
			Use:   "pending",
			Short: "List rentals not yet returned",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := opts.client().Pending(cmd.Context())
				if err != nil {
					return fmt.Errorf("report pending: %w", err)
				}
				return printRentals(cmd.OutOrStdout(), rs)
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "List every rental",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := opts.client().All(cmd.Context())
				if err != nil {
					return fmt.Errorf("report all: %w", err)
				}
				return printRentals(cmd.OutOrStdout(), rs)
			},
		},
		&cobra.Command{
			Use:   "popular",
			Short: "Most rented titles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := opts.client().All(cmd.Context())
				if err != nil {
					return fmt.Errorf("report popular: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TITLE\tRENTALS")
				for _, tc := range client.PopularTitles(rs) {
					fmt.Fprintf(w, "%s\t%d\n", tc.Title, tc.Count)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "revenue",
			Short: "Revenue per staff member",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := opts.client().All(cmd.Context())
				if err != nil {
					return fmt.Errorf("report revenue: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "STAFF\tRENTALS\tREVENUE")
				for _, st := range client.StaffRevenue(rs) {
					fmt.Fprintf(w, "%s\t%d\t%s\n", st.StaffID, st.Rentals,
						client.FormatRevenue(language.AmericanEnglish, currency.USD, st.Total))
				}
				return w.Flush()
			},
		},
	)
	return cmd
}

func printRentals(out io.Writer, rs []rentals.RentalResponse) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tTITLE\tSTAFF\tCOST\tRENTED AT\tRETURNED")
	for _, r := range rs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%t\n",
			r.ID, r.Customer, r.Title, r.StaffID, r.Cost, r.RentedAt.Format(time.RFC3339), r.Returned)
	}
	return w.Flush()
}

func rentalError(op string, id int64, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return fmt.Errorf("%s: no rental with id %d: %w", op, id, err)
	}
	return fmt.Errorf("%s %d: %w", op, id, err)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rental id %q", s)
	}
	return id, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}
