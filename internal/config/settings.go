package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VITALMETRICS_API_URL.
const EnvPrefix = "VITALMETRICS"

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultAPIURL         = "http://localhost:8787/api"
	DefaultSessionBackend = "keyring"
	DefaultRequestTimeout = 10 * time.Second
	DefaultRecordHistory  = true
)

// Settings are the effective values after layering defaults, the config
// file, and the environment, in increasing precedence.
type Settings struct {
	APIURL         string
	SessionBackend string
	RequestTimeout time.Duration
	RecordHistory  bool
	LogFile        string
}

// LoadSettings resolves the effective settings from the default config
// path and the environment.
func LoadSettings() (*Settings, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return Resolve(cfg)
}

// Resolve layers environment overrides over cfg and fills defaults.
func Resolve(cfg *Config) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("session_backend", DefaultSessionBackend)
	v.SetDefault("request_timeout", DefaultRequestTimeout.String())
	v.SetDefault("record_history", DefaultRecordHistory)
	v.SetDefault("log_file", "")

	// File values sit between the built-in defaults and the environment.
	if cfg.APIURL != "" {
		v.SetDefault("api_url", cfg.APIURL)
	}
	if cfg.SessionBackend != "" {
		v.SetDefault("session_backend", cfg.SessionBackend)
	}
	if cfg.RequestTimeout != "" {
		v.SetDefault("request_timeout", cfg.RequestTimeout)
	}
	if cfg.RecordHistory != nil {
		v.SetDefault("record_history", *cfg.RecordHistory)
	}
	if cfg.LogFile != "" {
		v.SetDefault("log_file", cfg.LogFile)
	}

	s := &Settings{
		APIURL:         strings.TrimRight(v.GetString("api_url"), "/"),
		SessionBackend: v.GetString("session_backend"),
		RecordHistory:  v.GetBool("record_history"),
		LogFile:        v.GetString("log_file"),
	}

	raw := v.GetString("request_timeout")
	timeout, err := parseTimeout(raw)
	if err != nil {
		return nil, fmt.Errorf("config: invalid request_timeout %q: %w", raw, err)
	}
	s.RequestTimeout = timeout

	if err := validateAPIURL(s.APIURL); err != nil {
		return nil, fmt.Errorf("config: invalid api_url: %w", err)
	}
	if err := validateBackend(s.SessionBackend); err != nil {
		return nil, fmt.Errorf("config: invalid session_backend: %w", err)
	}

	return s, nil
}
