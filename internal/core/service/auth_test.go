package service

import (
	"context"
	"errors"
	"testing"
	"webpbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

type mockTextSender struct {
	sendCalled  bool
	callCount   int
	sendReplies []string
	sendError   error
}

func (m *mockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {
	panic("implement me")
}

func (m *mockTextSender) EditMessageText(_ context.Context, _ int64, _ int, _ string) error {
	panic("implement me")
}

func (m *mockTextSender) DeleteMessage(_ context.Context, _ int64, _ int) error {
	panic("implement me")
}

func (m *mockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.callCount++
	m.sendCalled = true
	m.sendReplies = append(m.sendReplies, text)
	if m.sendError != nil {
		return 1, m.sendError
	}
	return len(text), nil
}

func TestNewAuthorizer(t *testing.T) {
	auth := NewAuthorizer([]int64{1, 2, 3}, "admin", &mockTextSender{})

	assert.NotNil(t, auth)
	assert.Equal(t, []int64{1, 2, 3}, auth.allowlist)
	assert.Equal(t, "admin", auth.adminUsername)
}

func TestChatAuthorizer_IsAuthorized(t *testing.T) {
	tests := []struct {
		name          string
		allowlist     []int64
		adminUsername string
		chatID        int64
		sendErr       error
		want          bool
		expectSend    bool
		expectedText  string
	}{
		{
			name:          "chatID is allowed",
			allowlist:     []int64{123, 456},
			adminUsername: "adminuser",
			chatID:        123,
			want:          true,
			expectSend:    false,
		},
		{
			name:       "empty allowlist admits everyone",
			allowlist:  nil,
			chatID:     777,
			want:       true,
			expectSend: false,
		},
		{
			name:          "chatID not allowed sends message",
			allowlist:     []int64{111, 222},
			adminUsername: "adminuser",
			chatID:        333,
			expectSend:    true,
			want:          false,
			expectedText:  "You are not authorized to use this bot. Please contact @adminuser with this ID to get access: 333",
		},
		{
			name:          "admin username is escaped",
			allowlist:     []int64{111},
			adminUsername: "admin_user",
			chatID:        333,
			expectSend:    true,
			want:          false,
			expectedText:  "You are not authorized to use this bot. Please contact @admin\\_user with this ID to get access: 333",
		},
		{
			name:         "no admin configured",
			allowlist:    []int64{111},
			chatID:       5,
			expectSend:   true,
			want:         false,
			expectedText: "You are not authorized to use this bot. Your chat ID is 5.",
		},
		{
			name:          "Send message fails for unauthorized chatID",
			allowlist:     []int64{999},
			adminUsername: "adminuser",
			chatID:        888,
			expectSend:    true,
			want:          false,
			sendErr:       errors.New("send failed"),
			expectedText:  "You are not authorized to use this bot. Please contact @adminuser with this ID to get access: 888",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSender := &mockTextSender{sendError: tt.sendErr}
			a := NewAuthorizer(tt.allowlist, tt.adminUsername, mockSender)

			got := a.IsAuthorized(context.Background(), tt.chatID)

			assert.Equal(t, tt.want, got)
			if tt.expectSend {
				assert.True(t, mockSender.sendCalled, "SendMessageReply should have been called")
				assert.Equal(t, 1, mockSender.callCount)
				assert.Equal(t, tt.expectedText, mockSender.sendReplies[0])
			} else {
				assert.False(t, mockSender.sendCalled, "SendMessageReply should not have been called")
			}
		})
	}
}
