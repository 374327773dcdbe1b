package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, chatID int64) bool
}

// ChatAuthorizer admits chats from an allowlist. An empty allowlist admits every chat.
type ChatAuthorizer struct {
	allowlist     []int64
	adminUsername string
	sender        port.TextSender
}

func NewAuthorizer(allowlist []int64, adminUsername string, sender port.TextSender) *ChatAuthorizer {
	return &ChatAuthorizer{
		allowlist:     allowlist,
		adminUsername: adminUsername,
		sender:        sender,
	}
}

const (
	forbidden          = "You are not authorized to use this bot. Please contact @%s with this ID to get access: %d"
	forbiddenAnonymous = "You are not authorized to use this bot. Your chat ID is %d."
)

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, chatID int64) bool {
	if len(a.allowlist) == 0 || slices.Contains(a.allowlist, chatID) {
		return true
	}

	text := fmt.Sprintf(forbiddenAnonymous, chatID)
	if a.adminUsername != "" {
		// underscores start italics in Markdown
		text = fmt.Sprintf(forbidden, strings.ReplaceAll(a.adminUsername, "_", "\\_"), chatID)
	}

	_, err := a.sender.SendMessageReply(ctx, &domain.Message{ChatID: chatID}, text)
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
