package mock

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "mock" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run the built-in mock data source",
		Long: `Run the built-in mock VitalMetrics API for demos and local development.

For a single command, the global --mock flag serves requests in-process
without starting a server.`,
	}

	cmd.AddCommand(ServeCommand())

	return cmd
}
