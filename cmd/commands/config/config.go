package config

import (
	"nathanbeddoewebdev/vitalmetrics/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vitalmetrics configuration",
		Long: "View and modify persistent vitalmetrics settings.\n\n" +
			"Configuration is stored at ~/.config/vitalmetrics/config.json.\n" +
			"Environment variables such as VITALMETRICS_API_URL override stored values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
