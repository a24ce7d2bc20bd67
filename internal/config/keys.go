package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "api-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates value and applies it to the given Config (in memory
	// only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "api-url",
		Description: "Base URL of the VitalMetrics API",
		Get:         func(cfg *Config) string { return cfg.APIURL },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimRight(v, "/")
			if err := validateAPIURL(v); err != nil {
				return err
			}
			cfg.APIURL = v
			return nil
		},
	},
	{
		Name:        "session-backend",
		Description: "Where the session token is kept (keyring or file)",
		Get:         func(cfg *Config) string { return cfg.SessionBackend },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(v)
			if err := validateBackend(v); err != nil {
				return err
			}
			cfg.SessionBackend = v
			return nil
		},
	},
	{
		Name:        "request-timeout",
		Description: "Per-request timeout, e.g. 10s",
		Get:         func(cfg *Config) string { return cfg.RequestTimeout },
		Set: func(cfg *Config, v string) error {
			d, err := parseTimeout(v)
			if err != nil {
				return err
			}
			cfg.RequestTimeout = d.String()
			return nil
		},
	},
	{
		Name:        "record-history",
		Description: "Record each dashboard snapshot locally (true or false)",
		Get: func(cfg *Config) string {
			if cfg.RecordHistory == nil {
				return ""
			}
			return strconv.FormatBool(*cfg.RecordHistory)
		},
		Set: func(cfg *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			cfg.RecordHistory = &b
			return nil
		},
	},
	{
		Name:        "log-file",
		Description: "Write debug logs to this file (rotated)",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set: func(cfg *Config, v string) error {
			cfg.LogFile = v
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

func validateAPIURL(v string) error {
	u, err := url.Parse(v)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("expected an http or https URL, got %q", v)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", v)
	}
	return nil
}

func validateBackend(v string) error {
	switch v {
	case "keyring", "file":
		return nil
	}
	return fmt.Errorf("expected keyring or file, got %q", v)
}

func parseTimeout(v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}
