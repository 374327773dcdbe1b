package commands

import (
	"context"
	"fmt"
	"time"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// StaticHandler answers a command with a fixed text.
type StaticHandler struct {
	textSender port.TextSender
	command    string
	text       string
}

func NewStaticHandler(textSender port.TextSender, command, text string) *StaticHandler {
	return &StaticHandler{textSender: textSender, command: command, text: text}
}

func (h *StaticHandler) GetCommand() string {
	return h.command
}

func (h *StaticHandler) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	log.Debug().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Msg("sending static reply")

	_, err := h.textSender.SendMessageReply(ctx, message, h.text)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return nil
}
