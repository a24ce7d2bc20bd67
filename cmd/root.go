package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/vitalmetrics/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/vitalmetrics/cmd/commands/config"
	"nathanbeddoewebdev/vitalmetrics/cmd/commands/dashboard"
	"nathanbeddoewebdev/vitalmetrics/cmd/commands/history"
	"nathanbeddoewebdev/vitalmetrics/cmd/commands/mock"
	"nathanbeddoewebdev/vitalmetrics/internal/app"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "vitalmetrics",
		Short: "A terminal client for the VitalMetrics Core Web Vitals dashboard",
		Long: `vitalmetrics shows Core Web Vitals (LCP, INP, CLS) for your pages,
classified as good, needs improvement, or poor.

It talks to the VitalMetrics API configured with 'vitalmetrics config set api-url'.
Pass --mock to use built-in demo data without a server.

Quick start:
  vitalmetrics --mock auth login          # Sign in with the demo account
  vitalmetrics --mock dashboard           # Interactive dashboard
  vitalmetrics --mock pages -o json       # Per-page metrics as JSON
  vitalmetrics history list               # Previously recorded snapshots`,
		SilenceUsage: true,
	}

	app.AddFlags(cmd)

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(dashboard.NewCommand())
	cmd.AddCommand(dashboard.PagesCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(mock.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
