package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"webpbot/internal/adapters/converter"
	"webpbot/internal/adapters/file"
	"webpbot/internal/adapters/handler"
	"webpbot/internal/adapters/metrics"
	"webpbot/internal/adapters/sender"
	"webpbot/internal/adapters/server"
	"webpbot/internal/config"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/domain/commands"
	"webpbot/internal/core/port"
	"webpbot/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the liveness endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("starting webpbot...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	imageConverter, err := newConverter(cfg.Converter)
	if err != nil {
		return err
	}

	// the dispatcher needs the bot's sender and the bot needs the dispatcher as default handler
	var dispatcher *handler.Dispatcher
	b, err := bot.New(cfg.Telegram.BotToken,
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			dispatcher.Handle(ctx, b, update)
		}),
		bot.WithErrorsHandler(func(err error) {
			log.Error().Err(err).Msg("telegram api error")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	s := sender.NewTelegram(b)

	commandRegistry := &domain.CommandRegistry{}
	commandRegistry.Register(commands.NewStaticHandler(s, "/start", domain.ReplyWelcome))
	commandRegistry.Register(commands.NewStaticHandler(s, "/help", domain.ReplyWelcome))
	commandRegistry.Register(commands.NewDebugHandler(s, "/debug"))

	convertHandler := commands.NewConvertHandler(commands.ConvertHandlerConfig{
		Converter:      imageConverter,
		Locator:        s,
		Downloader:     file.NewHTTPDownloader(&http.Client{Timeout: cfg.Download.Timeout}, cfg.Converter.MaxFileSize()),
		Storage:        file.NewTempStorage(""),
		TextSender:     s,
		DocumentSender: s,
		Recorder:       metrics.NewPrometheus(registry),
		MaxFileSize:    cfg.Converter.MaxFileSize(),
		Command:        "convert",
	})

	dispatcher = handler.NewDispatcher(handler.DispatcherConfig{
		Commands:      commandRegistry,
		Convert:       convertHandler,
		Fallback:      commands.NewStaticHandler(s, "", domain.ReplyFallback),
		Authorizer:    service.NewAuthorizer(cfg.Telegram.AllowedChatIDs, cfg.Telegram.AdminUsername, s),
		Timeout:       cfg.Handler.Timeout,
		MaxConcurrent: cfg.Handler.MaxConcurrent,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msg("bot listening")
		b.Start(ctx)
		log.Info().Msg("bot stopped, waiting for in-flight conversions")
		dispatcher.Wait()
		return nil
	})

	g.Go(func() error {
		return server.New("liveness", cfg.HTTP.Addr(), server.LivenessRouter()).Run(ctx)
	})

	if cfg.Metrics.Listen != "" {
		g.Go(func() error {
			return server.New("metrics", cfg.Metrics.Listen, server.MetricsRouter(registry)).Run(ctx)
		})
	}

	return g.Wait()
}

func newConverter(cfg config.ConverterConfig) (port.ImageConverter, error) {
	if cfg.Backend == config.BackendMagick {
		mc, err := converter.NewMagickConverter(cfg.MaxPixels)
		if err != nil {
			return nil, fmt.Errorf("failed initializing magick converter: %w", err)
		}
		return mc, nil
	}

	return converter.NewWebPConverter(cfg.MaxPixels), nil
}
