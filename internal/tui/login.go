package tui

import (
	"context"
	"errors"
	"os"
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/api"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// Authenticator signs a user in. *auth.Gateway satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.User, error)
}

// Credentials are the values collected by the login form.
type Credentials struct {
	Email    string
	Password string
}

// LoginForm prompts for any missing credentials, then signs in behind a
// spinner. prefill values are kept and their fields skipped.
func LoginForm(ctx context.Context, gw Authenticator, prefill Credentials) (*api.User, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""
	creds := prefill

	var fields []huh.Field
	if strings.TrimSpace(creds.Email) == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&creds.Email).
			Validate(validateEmail))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(func(v string) error {
				if v == "" {
					return errors.New("password is required")
				}
				return nil
			}))
	}
	if len(fields) > 0 {
		if err := runForm(accessible, huh.NewGroup(fields...)); err != nil {
			return nil, err
		}
	}

	var user *api.User
	err := spinner.New().
		Title("Signing in...").
		Accessible(accessible).
		Output(os.Stderr).
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			user, err = gw.Login(ctx, strings.TrimSpace(creds.Email), creds.Password)
			return err
		}).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, err
	}
	return user, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func validateEmail(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("email is required")
	}
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 || strings.ContainsAny(v, " \t") {
		return errors.New("enter a valid email address")
	}
	return nil
}
