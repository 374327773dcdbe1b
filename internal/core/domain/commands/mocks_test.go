package commands

import (
	"context"
	"os"
	"sync"
	"webpbot/internal/core/domain"
)

type MockTextSender struct {
	mu      sync.Mutex
	err     error
	editErr error
	nextID  int
	Replies []string
	Edits   map[int]string
	Deleted []int
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Replies = append(m.Replies, text)
	m.nextID++

	return 100 + m.nextID, m.err
}

func (m *MockTextSender) EditMessageText(_ context.Context, _ int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Edits == nil {
		m.Edits = make(map[int]string)
	}
	m.Edits[messageID] = text

	return m.editErr
}

func (m *MockTextSender) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, messageID)

	return nil
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type MockDocumentSender struct {
	err  error
	File domain.OutboundFile
	Data []byte
	sent int
}

func (m *MockDocumentSender) SendDocumentReply(_ context.Context, _ *domain.Message, file domain.OutboundFile) error {
	m.sent++
	m.File = file

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return err
	}
	m.Data = data

	return m.err
}

type MockLocator struct {
	url string
	err error
}

func (m *MockLocator) ResolveFile(_ context.Context, _ string) (string, error) {
	return m.url, m.err
}

type MockDownloader struct {
	data  []byte
	err   error
	block bool
	calls int
}

func (m *MockDownloader) Download(ctx context.Context, _ string, path string) error {
	m.calls++

	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}

	if m.err != nil {
		return m.err
	}

	return os.WriteFile(path, m.data, 0o600)
}

type MockImageConverter struct {
	encoding domain.Encoding
	err      error
	panics   bool
}

func (m *MockImageConverter) Convert(_ context.Context, _ string, outputPath string) (domain.Encoding, error) {
	if m.panics {
		panic("codec exploded")
	}

	if m.err != nil {
		return "", m.err
	}

	return m.encoding, os.WriteFile(outputPath, []byte("converted"), 0o600)
}

func (m *MockImageConverter) Extension() string {
	return ".webp"
}

type MockStorage struct {
	err error
}

func (m *MockStorage) CreateTempDir() (string, error) {
	return "", m.err
}

func (m *MockStorage) RemoveTempDir(_ string) {}

type MockRecorder struct {
	Results []domain.ConversionResult
}

func (m *MockRecorder) RecordConversion(result domain.ConversionResult) {
	m.Results = append(m.Results, result)
}
