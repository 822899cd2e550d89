/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-directory-services/db"
	"github.com/EO-DataHub/eodhp-directory-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	host       string
	port       int

	appCfg      *appconfig.Config
	directoryDB *db.DirectoryDB
)

var rootCmd = &cobra.Command{
	Use:   "directory-services",
	Short: "Directory Services",
	Long:  `Directory Services is a CLI tool for running the in-memory user and group directory.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"),
		"path to the YAML config file")
}

// commonSetUp sets up logging, loads the config and builds the seeded
// directory with its event notifier.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	notifier, err := newNotifier(appCfg.Pulsar)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}

	directoryDB, err = newDirectory(appCfg, notifier)
	if err != nil {
		notifier.Close()
		log.Fatal().Err(err).Msg("Failed to seed directory")
	}
}

// newNotifier publishes to Pulsar when a broker is configured and logs
// events otherwise.
func newNotifier(cfg appconfig.PulsarConfig) (events.Notifier, error) {
	if cfg.URL == "" {
		log.Info().Msg("No Pulsar URL configured, directory events will be logged only")
		return &events.LogNotifier{Log: &log.Logger}, nil
	}

	log.Info().Str("url", cfg.URL).Str("topic", cfg.TopicProducer).Msg("Connecting event publisher")
	return events.NewEventPublisher(cfg.URL, cfg.TopicProducer)
}

// newDirectory creates a directory and loads the configured seed data.
func newDirectory(cfg *appconfig.Config, notifier events.Notifier) (*db.DirectoryDB, error) {
	logger := log.With().Str("component", "directory").Logger()

	directory := db.NewDirectoryDB(notifier, &logger)
	if err := directory.Seed(cfg.Seed.Groups, cfg.Seed.Users); err != nil {
		return nil, err
	}
	return directory, nil
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
