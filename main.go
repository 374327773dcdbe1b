package main

import (
	"os"
	"time"
	"webpbot/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

func main() {
	// a missing .env is fine, the environment may be set by the platform
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "webpbot",
		Short: "Telegram bot converting PNG/JPG images to WEBP",
		// running without a subcommand starts the bot
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file (default: ./config.toml)")

	root.AddCommand(serveCmd())
	root.AddCommand(convertCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("webpbot failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), configPath)
	if err != nil {
		return nil, err
	}

	setupLogging(cfg.Log)

	return cfg, nil
}

func setupLogging(cfg config.LogConfig) {
	var logLevel zerolog.Level

	switch cfg.Level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
