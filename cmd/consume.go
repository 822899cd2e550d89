package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/EO-DataHub/eodhp-directory-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer to log events from the directory events topic",
	Run: func(cmd *cobra.Command, args []string) {

		setLogging(logLevel)

		cfg, err := appconfig.LoadConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
		if cfg.Pulsar.URL == "" || cfg.Pulsar.TopicConsumer == "" {
			log.Fatal().Msg("pulsar.url and pulsar.topicConsumer must be configured")
		}

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(cfg.Pulsar.URL, cfg.Pulsar.TopicConsumer,
			cfg.Pulsar.Subscription, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().Str("topic", cfg.Pulsar.TopicConsumer).Msg("Waiting for messages...")

		if err := consumer.Consume(ctx, logEvent); err != nil {
			log.Error().Err(err).Msg("Consumer failed")
			return
		}
		log.Info().Msg("Consumer stopped")
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}

func logEvent(ctx context.Context, event events.DirectoryEvent) error {
	log.Info().
		Str("event_id", event.ID).
		Str("action", string(event.Action)).
		Str("userid", event.UserID).
		Str("group", event.Group).
		Strs("userids", event.UserIDs).
		Int64("timestamp", event.Timestamp).
		Msg("Directory event")
	return nil
}
