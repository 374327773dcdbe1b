package port

import (
	"context"
	"webpbot/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// EditMessageText replaces the text of a message previously sent by the bot.
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error
	// DeleteMessage removes a message previously sent by the bot.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// SendChatAction repeatedly sends a chat action (e.g., uploading a document) until ctx is done.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
}

type DocumentSender interface {
	// SendDocumentReply uploads a local file as a document reply to the provided message.
	SendDocumentReply(ctx context.Context, message *domain.Message, file domain.OutboundFile) error
}

type FileLocator interface {
	// ResolveFile looks up a remote file by its ID and returns a URL it can be downloaded from.
	ResolveFile(ctx context.Context, fileID string) (string, error)
}
