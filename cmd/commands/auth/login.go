package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/app"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a session token",
		Long: `Sign in with your email and password. The session token is kept in the
configured session backend (the OS keychain by default).

In a terminal, missing values are collected with an interactive form.

Examples:
  vitalmetrics auth login
  vitalmetrics auth login --email demo@vitalmetrics.com --password password
  vitalmetrics --mock auth login`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "Account email (optional, overrides prompt)")
	cmd.Flags().String("password", "", "Account password (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	email = strings.TrimSpace(email)

	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	var user *api.User
	if interactive && (email == "" || password == "") {
		user, err = tui.LoginForm(ctx, a.Gateway, tui.Credentials{Email: email, Password: password})
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
			return nil
		}
	} else {
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("--password is required when stdin is not a terminal")
			}
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			bytes, readErr := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if readErr != nil {
				return readErr
			}
			password = string(bytes)
		}
		if password == "" {
			return fmt.Errorf("password cannot be empty")
		}
		user, err = a.Gateway.Login(ctx, email, password)
	}
	if err != nil {
		return loginError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func loginError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fmt.Errorf("login failed: invalid email or password")
	case errors.Is(err, domain.ErrAlreadyInProgress):
		return fmt.Errorf("login failed: another login is in progress")
	case errors.Is(err, domain.ErrTransport):
		return fmt.Errorf("login failed: could not reach the API: %w", err)
	}
	return fmt.Errorf("login failed: %w", err)
}
