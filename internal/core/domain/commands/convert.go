package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
	"webpbot/internal/core/domain"
	"webpbot/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	inputName  = "input"
	outputName = "output"
)

type ConvertHandler struct {
	converter      port.ImageConverter
	locator        port.FileLocator
	downloader     port.Downloader
	storage        port.TempStorage
	textSender     port.TextSender
	documentSender port.DocumentSender
	recorder       port.ConversionRecorder
	maxFileSize    int64
	command        string
}

type ConvertHandlerConfig struct {
	Converter      port.ImageConverter
	Locator        port.FileLocator
	Downloader     port.Downloader
	Storage        port.TempStorage
	TextSender     port.TextSender
	DocumentSender port.DocumentSender
	Recorder       port.ConversionRecorder
	// MaxFileSize is the largest accepted document in bytes.
	MaxFileSize int64
	Command     string
}

func NewConvertHandler(cfg ConvertHandlerConfig) *ConvertHandler {
	return &ConvertHandler{
		converter:      cfg.Converter,
		locator:        cfg.Locator,
		downloader:     cfg.Downloader,
		storage:        cfg.Storage,
		textSender:     cfg.TextSender,
		documentSender: cfg.DocumentSender,
		recorder:       cfg.Recorder,
		maxFileSize:    cfg.MaxFileSize,
		command:        cfg.Command,
	}
}

func (h *ConvertHandler) GetCommand() string {
	return h.command
}

func (h *ConvertHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Str("requestId", requestID()).
		Logger()

	l.Info().Msg("handling request")

	upload, err := domain.SelectUpload(message, h.maxFileSize, h.converter.Extension())
	if err != nil {
		l.Info().Err(err).Msg("rejected attachment")
		return h.reject(ctx, message, err)
	}

	url, err := h.locator.ResolveFile(ctx, upload.FileID)
	if err != nil {
		l.Error().Err(err).Str("fileId", upload.FileID).Msg("could not resolve file")
		return h.reject(ctx, message, fmt.Errorf("%w: %w", domain.ErrFileUnavailable, err))
	}

	placeholderID, err := h.textSender.SendMessageReply(ctx, message, domain.ReplyProcessing)
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go h.textSender.SendChatAction(jobCtx, message.ChatID, domain.UploadingDocument)

	start := time.Now()
	result := h.process(jobCtx, l, message, url, upload.Filename)
	result.Elapsed = time.Since(start)
	cancel()

	if h.recorder != nil {
		h.recorder.RecordConversion(result)
	}

	if result.Err != nil {
		return h.fail(ctx, l, message, placeholderID, result)
	}

	l.Info().
		Str("encoding", string(result.Encoding)).
		Dur("elapsed", result.Elapsed).
		Str("filename", upload.Filename).
		Msg("conversion delivered")

	if err := h.textSender.DeleteMessage(ctx, message.ChatID, placeholderID); err != nil {
		l.Warn().Err(err).Int("placeholderId", placeholderID).Msg("could not delete placeholder")
	}

	return nil
}

// process runs download, conversion and upload inside a private temporary directory that is
// removed on every exit path.
func (h *ConvertHandler) process(ctx context.Context, l zerolog.Logger, message *domain.Message, url,
	filename string) (result domain.ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Msg("recovered from panic during conversion")
			result.Err = &domain.StageError{Stage: domain.StageUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	dir, err := h.storage.CreateTempDir()
	if err != nil {
		result.Err = &domain.StageError{Stage: domain.StageStorage, Err: err}
		return result
	}
	defer h.storage.RemoveTempDir(dir)

	req := domain.ConversionRequest{
		Dir:        dir,
		InputPath:  filepath.Join(dir, inputName),
		OutputPath: filepath.Join(dir, outputName+h.converter.Extension()),
		Filename:   filename,
	}

	l.Debug().Str("dir", req.Dir).Msg("downloading file")

	if err := h.downloader.Download(ctx, url, req.InputPath); err != nil {
		result.Err = &domain.StageError{Stage: domain.StageDownload, Err: err}
		return result
	}

	encoding, err := h.converter.Convert(ctx, req.InputPath, req.OutputPath)
	if err != nil {
		result.Err = &domain.StageError{Stage: domain.StageConvert, Err: err}
		return result
	}

	result.Encoding = encoding
	result.OutputPath = req.OutputPath

	err = h.documentSender.SendDocumentReply(ctx, message, domain.OutboundFile{
		Path:     req.OutputPath,
		Filename: req.Filename,
		Caption:  domain.ReplyDone,
	})
	if err != nil {
		result.Err = &domain.StageError{Stage: domain.StageUpload, Err: err}
		return result
	}

	return result
}

// reject answers a message that failed validation with a fresh reply.
func (h *ConvertHandler) reject(ctx context.Context, message *domain.Message, err error) error {
	var text string
	switch {
	case errors.Is(err, domain.ErrUnsupportedType):
		text = domain.ReplyUnsupportedType
	case errors.Is(err, domain.ErrFileTooLarge):
		text = fmt.Sprintf(domain.ReplyFileTooLarge, h.maxFileSize/(1024*1024))
	default:
		text = domain.ReplyFileUnavailable
	}

	if _, sendErr := h.textSender.SendMessageReply(ctx, message, text); sendErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, sendErr)
	}

	return nil
}

// fail edits the placeholder to describe a failed conversion. Unreadable input is the user's
// problem and not reported as an error.
func (h *ConvertHandler) fail(ctx context.Context, l zerolog.Logger, message *domain.Message, placeholderID int,
	result domain.ConversionResult) error {
	var text string
	switch {
	case errors.Is(result.Err, domain.ErrUnreadableImage):
		text = domain.ReplyUnreadable
	case errors.Is(result.Err, domain.ErrImageTooLarge):
		text = domain.ReplyImageTooLarge
	case domain.StageOf(result.Err) == domain.StageDownload:
		text = domain.ReplyDownloadFailed
	default:
		text = domain.ReplyGenericFailure
	}

	l.Warn().
		Err(result.Err).
		Str("stage", string(domain.StageOf(result.Err))).
		Str("outcome", result.Outcome()).
		Dur("elapsed", result.Elapsed).
		Msg("conversion failed")

	if err := h.textSender.EditMessageText(ctx, message.ChatID, placeholderID, text); err != nil {
		l.Error().Err(err).Msg("could not edit placeholder")
		return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	if text == domain.ReplyUnreadable || text == domain.ReplyImageTooLarge {
		return nil
	}

	return fmt.Errorf("conversion failed: %w", result.Err)
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}

	return id.String()
}
