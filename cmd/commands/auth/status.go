package auth

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"nathanbeddoewebdev/vitalmetrics/internal/app"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long: `Show whether a session is stored and, if so, which user it belongs to.

Example:
  vitalmetrics auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			status := tui.AuthStatus{
				APIURL:  a.Settings.APIURL,
				Backend: a.Settings.SessionBackend,
			}

			if !a.Gateway.Authenticated() {
				status.Detail = "no stored session"
			} else {
				user, err := a.Gateway.CurrentUser(cmd.Context())
				switch {
				case err == nil:
					status.Authenticated = true
					status.Email = user.Email
					status.Name = user.Name
				case errors.Is(err, domain.ErrUnauthenticated):
					status.Detail = "session expired or revoked"
				default:
					status.Detail = fmt.Sprintf("error: %v", err)
				}
			}

			// Use TUI in interactive terminal.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				if err := tui.RunAuthStatus(status); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, row := range status.Rows() {
				fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	return cmd
}
