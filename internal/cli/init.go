// Package cli provides the process bootstrap shared by every saldo command.
package cli

import (
	"context"
	"fmt"
	"os"

	"saldo/internal/backend"
	"saldo/internal/config"
	"saldo/internal/ledger"
	"saldo/internal/log"
)

// LoadEnvFile loads the .env file for local development. A missing file is
// ignored; a malformed one is reported on stderr.
func LoadEnvFile() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
}

// SetupLogger builds the process logger from cfg and makes it the slog
// default.
func SetupLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    format,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadConfig loads configuration from the environment, applies overrides in
// order and validates the result.
func LoadConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenLedger builds the configured kv backend and loads the record store
// from it. The returned cleanup closes the backend.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...ledger.Option) (*ledger.Store, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateStore(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]ledger.Option{ledger.WithKey(cfg.StorageKey), ledger.WithLogger(logger)}, opts...)
	store := ledger.New(res.Store, opts...)
	store.Load(ctx)

	cleanup := res.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return store, cleanup, nil
}
