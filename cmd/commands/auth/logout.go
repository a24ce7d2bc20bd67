package auth

import (
	"fmt"

	"nathanbeddoewebdev/vitalmetrics/internal/app"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session token",
		Long: `Sign out and remove the stored session token.

The local session is always cleared, even if the API cannot be reached.

Example:
  vitalmetrics auth logout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Gateway.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
