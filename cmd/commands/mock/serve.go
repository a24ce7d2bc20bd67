package mock

import (
	"fmt"
	"net"
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/app"
	"nathanbeddoewebdev/vitalmetrics/internal/config"
	"nathanbeddoewebdev/vitalmetrics/internal/logging"
	"nathanbeddoewebdev/vitalmetrics/internal/mockapi"

	"github.com/spf13/cobra"
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock API over HTTP",
		Long: fmt.Sprintf(`Serve the mock API over HTTP until interrupted.

Demo credentials: %s / %s

Examples:
  vitalmetrics mock serve
  vitalmetrics mock serve --addr 127.0.0.1:9000 --latency 800ms --strict`,
			mockapi.DemoEmail, mockapi.DemoPassword),
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().String("addr", ":8787", "Address to listen on")
	cmd.Flags().Duration("latency", 0, "Delay of the dashboard route; other routes wait a fixed share of it")
	cmd.Flags().Bool("strict", false, "Accept only tokens issued by this server and revoke them on logout")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	latency, _ := cmd.Flags().GetDuration("latency")
	strict, _ := cmd.Flags().GetBool("strict")

	if latency < 0 {
		return fmt.Errorf("--latency must not be negative")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	flags := app.FlagOptions(cmd)
	log, err := logging.New(logging.Options{
		Verbose: flags.Verbose,
		File:    settings.LogFile,
		Console: flags.Console,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	defer log.Sync()

	h, err := mockapi.NewHandler(mockapi.Options{
		Latency: latency,
		Strict:  strict,
		Logger:  log.Named("mockapi"),
		Now:     time.Now,
	})
	if err != nil {
		return err
	}

	ready := func(a net.Addr) {
		fmt.Fprintf(cmd.OutOrStdout(), "Mock API listening on http://%s/api\n", a)
		fmt.Fprintf(cmd.OutOrStdout(), "Log in with %s / %s. Press Ctrl+C to stop.\n", mockapi.DemoEmail, mockapi.DemoPassword)
	}
	return mockapi.ListenAndServe(cmd.Context(), addr, h, log, ready)
}
