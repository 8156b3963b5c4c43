// Package cli provides the shared initialization used by the exptracker
// commands: logging, environment, configuration and store wiring.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"exptracker/internal/app"
	"exptracker/internal/backend"
	"exptracker/internal/config"
	"exptracker/internal/expenses"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
)

// SetupLogger builds the process logger and installs it as the slog default.
// An unknown level falls back to info.
func SetupLogger(level string, out io.Writer) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = applog.ComponentCLI
	if out != nil {
		cfg.Output = out
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info log level", applog.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment into a Config, lets apply
// adjust it (command-line overrides) and validates the result.
func LoadAndValidateConfig(apply func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenApp creates the configured backend and loads the store from it. The
// returned cleanup releases backend resources.
func OpenApp(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*app.App, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	store, _ := expenses.Open(ctx, res.Gateway, logger)
	return app.New(store), res.Close, nil
}

// OpenGateway creates the configured backend without change notifications,
// for readers of the persisted data.
func OpenGateway(ctx context.Context, cfg *config.Config, logger *applog.Logger) (persist.Gateway, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	bcfg.AMQPURL = ""

	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Gateway, res.Close, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
