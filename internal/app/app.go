// Package app assembles the client stack from the effective settings:
// logger, session store, API client, auth gateway, dashboard pipeline and
// snapshot history.
package app

import (
	"fmt"
	"io"
	"net/http"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/config"
	"nathanbeddoewebdev/vitalmetrics/internal/history"
	"nathanbeddoewebdev/vitalmetrics/internal/logging"
	"nathanbeddoewebdev/vitalmetrics/internal/mockapi"
	"nathanbeddoewebdev/vitalmetrics/internal/services/auth"
	"nathanbeddoewebdev/vitalmetrics/internal/services/dashboard"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"go.uber.org/zap"
)

// Options are the process-wide flags.
type Options struct {
	// Mock serves /api requests from the in-process mock data source.
	Mock    bool
	Verbose bool

	// Console receives console log output. Defaults to stderr.
	Console io.Writer
}

// App holds the wired components for one command invocation.
type App struct {
	Settings *config.Settings
	Log      *zap.Logger
	Store    auth.Store
	Client   *api.Client
	Gateway  *auth.Gateway
	Pipeline *dashboard.Pipeline

	intercept *mockapi.InterceptTransport
}

// New resolves settings and builds the component graph. Call Close when
// done.
func New(opts Options) (*App, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Verbose: opts.Verbose,
		File:    settings.LogFile,
		Console: opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise logging: %w", err)
	}

	store, err := auth.NewStore(settings.SessionBackend)
	if err != nil {
		return nil, err
	}

	a := &App{
		Settings: settings,
		Log:      log,
		Store:    store,
	}

	clientOpts := []api.Option{
		api.WithBaseURL(settings.APIURL),
		api.WithTimeout(settings.RequestTimeout),
	}
	if opts.Mock {
		h, err := mockapi.NewHandler(mockapi.Options{Logger: log.Named("mockapi")})
		if err != nil {
			return nil, err
		}
		a.intercept = mockapi.NewInterceptTransport(h)
		a.intercept.Fallback = http.DefaultTransport
		clientOpts = append(clientOpts, api.WithTransport(a.intercept))
		log.Debug("serving /api from the in-process mock")
	}

	a.Client = api.New(store, clientOpts...)
	a.Gateway = auth.NewGateway(store, a.Client, auth.WithLogger(log.Named("auth")))
	a.Pipeline = dashboard.NewPipeline(store, a.Client, dashboard.WithLogger(log.Named("dashboard")))

	log.Debug("client ready",
		zap.String("api_url", settings.APIURL),
		zap.String("session_backend", settings.SessionBackend),
		zap.Duration("timeout", settings.RequestTimeout),
		zap.Bool("mock", opts.Mock),
	)
	return a, nil
}

// RecordSnapshot saves snap to history when recording is enabled.
// Failures are logged and never returned.
func (a *App) RecordSnapshot(snap *vitals.Snapshot) {
	if !a.Settings.RecordHistory || snap == nil || len(snap.PageRows) == 0 {
		return
	}
	repo, err := history.Open()
	if err != nil {
		a.Log.Warn("history unavailable; snapshot not recorded", zap.Error(err))
		return
	}
	defer repo.Close()

	n, err := repo.Save(snap)
	if err != nil {
		a.Log.Warn("failed to record snapshot", zap.Error(err))
		return
	}
	a.Log.Debug("snapshot recorded", zap.Int("rows", n))
}

// Close releases the mock transport and flushes the logger.
func (a *App) Close() {
	if a.intercept != nil {
		a.intercept.Close()
	}
	_ = a.Log.Sync()
}
