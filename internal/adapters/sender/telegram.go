package sender

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	"webpbot/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// TelegramBot is the subset of *bot.Bot used by the sender.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot}
}

func replyTo(message *domain.Message) *models.ReplyParameters {
	if message.ID == 0 {
		return nil
	}

	return &models.ReplyParameters{
		MessageID:                message.ID,
		ChatID:                   message.ChatID,
		AllowSendingWithoutReply: true,
	}
}

func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	msg, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          message.ChatID,
		Text:            text,
		ParseMode:       models.ParseModeMarkdownV1,
		ReplyParameters: replyTo(message),
	})
	if err != nil {
		log.Error().Err(err).Int64("chatId", message.ChatID).Msg("failed to send message")
		return 0, err
	}

	return msg.ID, nil
}

func (s *Telegram) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := s.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Int("messageId", messageID).Msg("failed to edit message")
		return err
	}

	return nil
}

func (s *Telegram) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	ok, err := s.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return err
	}

	if !ok {
		return errors.New("message was not deleted")
	}

	return nil
}

func (s *Telegram) SendDocumentReply(ctx context.Context, message *domain.Message, file domain.OutboundFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("error opening document: %w", err)
	}
	defer f.Close()

	_, err = s.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:          message.ChatID,
		Document:        &models.InputFileUpload{Filename: file.Filename, Data: f},
		Caption:         file.Caption,
		ParseMode:       models.ParseModeMarkdownV1,
		ReplyParameters: replyTo(message),
	})
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to send document response")
		return err
	}

	return nil
}

// ResolveFile asks Telegram for the file's storage path and returns its download link.
func (s *Telegram) ResolveFile(ctx context.Context, fileID string) (string, error) {
	f, err := s.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("error getting file from telegram api: %w", err)
	}

	if f == nil || f.FilePath == "" {
		return "", fmt.Errorf("%w: no file path for %s", domain.ErrFileUnavailable, fileID)
	}

	return s.bot.FileDownloadLink(f), nil
}

var ChatActionInterval = 5 * time.Second

func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	chatAction := models.ChatAction(action)

	ticker := time.NewTicker(ChatActionInterval)
	defer ticker.Stop()

	log.Debug().Int64("chatId", chatID).Msg("starting action routine")

	for {
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("error sending chat action")
			}
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatId", chatID).Msg("done, stopping action routine")
			return
		case <-ticker.C:
		}
	}
}
