package dashboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/app"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/retry"
	dashsvc "nathanbeddoewebdev/vitalmetrics/internal/services/dashboard"
	"nathanbeddoewebdev/vitalmetrics/internal/tui"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// errNotLoggedIn is returned when the dashboard needs a session.
var errNotLoggedIn = errors.New("not logged in: run 'vitalmetrics auth login' first")

// NewCommand returns the "dashboard" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show Core Web Vitals for your pages",
		Long: `Show the Core Web Vitals summary and the per-page breakdown.

In a terminal this opens an interactive view: press / to filter pages and
r to refresh. With -o, or when output is not a terminal, the snapshot is
printed once.

Examples:
  vitalmetrics dashboard
  vitalmetrics dashboard --filter checkout -o json
  vitalmetrics dashboard -o yaml --retries 2`,
		Args:         cobra.NoArgs,
		RunE:         runDashboard,
		SilenceUsage: true,
	}

	cmd.Flags().String("filter", "", "Only show pages whose path contains this text (case-sensitive)")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, json or yaml")
	cmd.Flags().Int("retries", 0, "Retry this many times on network errors")

	return cmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	output, _ := cmd.Flags().GetString("output")
	retries, _ := cmd.Flags().GetInt("retries")
	output = strings.ToLower(strings.TrimSpace(output))

	if err := validateFormat(output); err != nil {
		return err
	}
	if retries < 0 {
		return fmt.Errorf("--retries must not be negative")
	}

	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if !cmd.Flags().Changed("output") && term.IsTerminal(int(os.Stdout.Fd())) {
		ctrl := dashsvc.NewController(a.Pipeline)
		result, err := tui.RunDashboard(ctx, a.Gateway, ctrl, filter)
		if err != nil {
			return err
		}
		a.RecordSnapshot(result.Snapshot)
		if result.NeedLogin {
			return errNotLoggedIn
		}
		return nil
	}

	snap, err := retry.Value(ctx, retryConfig(a, retries), retry.IsTransport, func() (*vitals.Snapshot, error) {
		return a.Pipeline.Load(ctx, filter)
	})
	if err != nil {
		return loadError("dashboard", err)
	}
	a.RecordSnapshot(snap)

	if output == formatTable {
		return printSnapshot(cmd.OutOrStdout(), snap)
	}
	return encode(cmd.OutOrStdout(), output, snap)
}

func retryConfig(a *app.App, retries int) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = retries + 1
	cfg.OnRetry = func(attempt int, err error) {
		a.Log.Warn("dashboard load failed; retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return cfg
}

func loadError(what string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return errNotLoggedIn
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("timed out loading %s: %w", what, err)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
