package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"exptracker/internal/app"
	"exptracker/internal/backend"
	"exptracker/internal/cli"
	"exptracker/internal/config"
	applog "exptracker/internal/log"
)

// annotationNoStore marks commands that do not load the expense store.
const annotationNoStore = "exptracker/no-store"

var (
	flagBackend  string
	flagData     string
	flagLogLevel string

	cfg         *config.Config
	logger      *applog.Logger
	application *app.App
	cleanup     backend.CleanupFunc
)

var rootCmd = &cobra.Command{
	Use:   "exptracker",
	Short: "A small single-user expense tracker",
	Long: `Exptracker records expenses (description, amount, category), keeps them in a
local data file and reports the list and the grand total.

Every change is saved immediately. The data file defaults to expenses.json in
the working directory; a .yaml or .yml extension switches the file to YAML.

Settings come from the environment (or a .env file):
  DATA_BACKEND   file or sqlite (default file)
  DATA_FILE      data file path (default expenses.json)
  SQLITE_DB_PATH SQLite database path (default expenses.db)
  AMQP_URL       optional RabbitMQ URL for change notifications
  PORT           web form port (default 8081)
  LOG_LEVEL      debug, info, warn or error (default info)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: openApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := execute()
	if err != nil && !errors.Is(err, errValidation) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "data backend: file or sqlite (overrides DATA_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data file or database path (overrides DATA_FILE / SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

func openApp(cmd *cobra.Command, args []string) error {
	cli.LoadEnvFile()

	var err error
	cfg, err = cli.LoadAndValidateConfig(applyFlags)
	if err != nil {
		return err
	}

	logger = cli.SetupLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if cmd.Annotations[annotationNoStore] != "" {
		return nil
	}
	application, cleanup, err = cli.OpenApp(cmd.Context(), cfg, logger)
	return err
}

// execute runs the command line and releases the backend afterwards,
// including when the command failed.
func execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

func closeApp() {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil && logger != nil {
		logger.Warn("Failed to close backend", applog.FieldError, err)
	}
	cleanup = nil
}

func applyFlags(c *config.Config) {
	if flagBackend != "" {
		c.DataBackend = flagBackend
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if flagData != "" {
		if c.DataBackend == config.BackendSQLite {
			c.SQLiteDBPath = flagData
		} else {
			c.DataFile = flagData
		}
	}
}

// errValidation marks a rejected input; the message has already been printed.
var errValidation = errors.New("invalid input")
