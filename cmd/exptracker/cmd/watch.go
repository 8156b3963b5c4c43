package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"exptracker/internal/amqp"
	"exptracker/internal/cli"
	"exptracker/internal/worker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check store-saved notifications against the persisted data",
	Long: `Watch consumes the notifications published after every save and reloads the
data file (or database) to confirm it matches the announced count and total.
Mismatches are logged as warnings.

It needs a RabbitMQ URL, from AMQP_URL or --amqp-url, and runs until SIGINT or
SIGTERM.`,
	Annotations: map[string]string{annotationNoStore: "true"},
	Args:        cobra.NoArgs,
	RunE:        runWatch,
}

var watchAMQPURL string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchAMQPURL, "amqp-url", "", "RabbitMQ URL (overrides AMQP_URL)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	url := cfg.AMQPURL
	if watchAMQPURL != "" {
		url = watchAMQPURL
	}
	if url == "" {
		return errors.New("watch needs a RabbitMQ URL: set AMQP_URL or --amqp-url")
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	gateway, closeGateway, err := cli.OpenGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeGateway()

	client, err := amqp.NewClient(ctx, url, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	w := worker.NewAuditWorker(gateway, logger)
	err = client.ConsumeStoreSaved(ctx, w.HandleStoreSaved)

	stats := w.Stats()
	logger.Info("Watcher stopped",
		"processed", stats.Processed,
		"drifted", stats.Drifted)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
