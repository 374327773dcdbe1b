package handler

import (
	"context"
	"errors"
	"time"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/port"
	"webpbot/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Dispatcher routes Telegram updates to command, conversion and fallback handlers. Each update
// is handled on its own goroutine, at most maxConcurrent at a time.
type Dispatcher struct {
	commands   port.CommandRegistry
	convert    domain.CommandResponder
	fallback   domain.CommandResponder
	authorizer service.Authorizer
	timeout    time.Duration
	workers    *errgroup.Group
}

type DispatcherConfig struct {
	Commands      port.CommandRegistry
	Convert       domain.CommandResponder
	Fallback      domain.CommandResponder
	Authorizer    service.Authorizer
	Timeout       time.Duration
	MaxConcurrent int
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	workers := &errgroup.Group{}
	if cfg.MaxConcurrent > 0 {
		workers.SetLimit(cfg.MaxConcurrent)
	}

	return &Dispatcher{
		commands:   cfg.Commands,
		convert:    cfg.Convert,
		fallback:   cfg.Fallback,
		authorizer: cfg.Authorizer,
		timeout:    cfg.Timeout,
		workers:    workers,
	}
}

// Handle is registered as the bot's default handler.
func (d *Dispatcher) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	message := toDomainMessage(update.Message)

	// keep running after the polling context is cancelled so Wait can drain
	ctx = context.WithoutCancel(ctx)

	d.workers.Go(func() error {
		d.dispatch(ctx, message)
		return nil
	})
}

// Wait blocks until every in-flight update has been handled.
func (d *Dispatcher) Wait() {
	_ = d.workers.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, message *domain.Message) {
	l := log.With().Int("messageId", message.ID).Int64("chatId", message.ChatID).Logger()

	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("recovered from panic in handler")
		}
	}()

	if d.authorizer != nil && !d.authorizer.IsAuthorized(ctx, message.ChatID) {
		l.Info().Str("username", message.Username).Msg("unauthorized chat")
		return
	}

	handler := d.route(message)
	l.Debug().Str("command", handler.GetCommand()).Msg("dispatching message")

	if err := handler.Respond(ctx, d.timeout, message); err != nil {
		l.Error().Err(err).Str("command", handler.GetCommand()).Msg("failed to respond to message")
	}
}

func (d *Dispatcher) route(message *domain.Message) domain.CommandResponder {
	if message.HasImage() {
		return d.convert
	}

	if cmd := domain.ParseCommand(message.Text); cmd != "" && d.commands != nil {
		handler, err := d.commands.Get(cmd)
		if err == nil {
			return handler
		}

		if !errors.Is(err, domain.ErrCommandNotFound) {
			log.Warn().Err(err).Str("command", cmd).Msg("command lookup failed")
		}
	}

	return d.fallback
}

func toDomainMessage(m *models.Message) *domain.Message {
	message := &domain.Message{
		ID:     m.ID,
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}

	if m.From != nil {
		message.Username = userNameOrFirstName(m.From)
	}

	for _, p := range m.Photo {
		message.Photos = append(message.Photos, domain.PhotoSize{
			FileID:       p.FileID,
			FileUniqueID: p.FileUniqueID,
			Width:        p.Width,
			Height:       p.Height,
			FileSize:     int64(p.FileSize),
		})
	}

	if m.Document != nil {
		message.Document = &domain.Document{
			FileID:       m.Document.FileID,
			FileUniqueID: m.Document.FileUniqueID,
			FileName:     m.Document.FileName,
			MimeType:     m.Document.MimeType,
			FileSize:     int64(m.Document.FileSize),
		}
	}

	return message
}

func userNameOrFirstName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
