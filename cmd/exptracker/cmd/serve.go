package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"exptracker/internal/cli"
	apphttp "exptracker/internal/http"
	applog "exptracker/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the expense form as a local web page",
	Long: `Serve starts a small web server with the expense form and the add, view,
total and reset actions. It stops cleanly on SIGINT or SIGTERM.

Example:
  exptracker serve --port 8081`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort            string
	serveShutdownTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 30*time.Second, "time allowed for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	port := cfg.Port
	if servePort != "" {
		port = servePort
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	srv := apphttp.NewServer(":"+port, application, logger)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting exptracker server",
			"port", port,
			applog.FieldBackend, cfg.DataBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
