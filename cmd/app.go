package cmd

import (
	"fmt"

	"github.com/iksnae/sentry-client/internal"
)

// app bundles what a command needs: config, persisted storage, the session
// built on it and the backend client.
type app struct {
	cfg     *internal.Config
	storage *internal.Storage
	session *internal.Session
	client  *internal.Client
}

// loadConfig reads the config and applies the persistent flag overrides
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.Log.Level))
	}
	return cfg, nil
}

// openApp loads config and opens client storage. Callers must call close.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	storage, err := internal.OpenStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open client storage: %w", err)
	}
	internal.LogDebug("Using storage %s and backend %s", cfg.Storage.Path, cfg.API.BaseURL)
	return &app{
		cfg:     cfg,
		storage: storage,
		session: internal.NewSession(storage),
		client:  internal.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
	}, nil
}

func (a *app) close() {
	if err := a.storage.Close(); err != nil {
		internal.LogWarn("Failed to close storage: %v", err)
	}
}
