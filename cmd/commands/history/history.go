package history

import "github.com/spf13/cobra"

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage recorded snapshots",
		Long: "View per-page metrics recorded by earlier dashboard runs and prune old entries.\n\n" +
			"History is stored locally in ~/.config/vitalmetrics/history.db. Recording can be\n" +
			"turned off with 'vitalmetrics config set record-history false'.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
