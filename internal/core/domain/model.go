package domain

import (
	"errors"
	"time"
)

type Message struct {
	ID       int
	ChatID   int64
	Username string
	Text     string
	Photos   []PhotoSize
	Document *Document
}

// HasImage reports whether the message carries a photo or an uploaded file.
func (m *Message) HasImage() bool {
	return len(m.Photos) > 0 || m.Document != nil
}

type PhotoSize struct {
	FileID       string
	FileUniqueID string
	Width        int
	Height       int
	FileSize     int64
}

type Document struct {
	FileID       string
	FileUniqueID string
	FileName     string
	MimeType     string
	FileSize     int64
}

// Upload is the remote file picked from a message for conversion.
type Upload struct {
	FileID   string
	Filename string
}

// OutboundFile is a local file sent back to a chat as a document.
type OutboundFile struct {
	Path     string
	Filename string
	Caption  string
}

// Action is a Telegram chat action name.
type Action string

const UploadingDocument Action = "upload_document"

type Encoding string

const (
	Lossless Encoding = "lossless"
	Lossy    Encoding = "lossy"
)

// ConversionRequest holds the paths used by a single conversion. Dir is owned by exactly one
// handler invocation and removed when it returns.
type ConversionRequest struct {
	Dir        string
	InputPath  string
	OutputPath string
	Filename   string
}

type ConversionResult struct {
	OutputPath string
	Encoding   Encoding
	Err        error
	Elapsed    time.Duration
}

// Outcome maps the result to a short label used in logs and metrics.
func (r ConversionResult) Outcome() string {
	switch {
	case r.Err == nil:
		return "success"
	case errors.Is(r.Err, ErrUnreadableImage):
		return "unreadable"
	case errors.Is(r.Err, ErrImageTooLarge):
		return "too_large"
	}

	stage := StageOf(r.Err)
	if stage == StageUnknown {
		return "failed"
	}

	return string(stage) + "_failed"
}
