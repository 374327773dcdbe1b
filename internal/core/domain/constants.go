package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileUnavailable    = errors.New("file unavailable")
	ErrUnreadableImage    = errors.New("unreadable image")
	ErrImageTooLarge      = errors.New("image dimensions too large")
)

type Stage string

const (
	StageStorage  Stage = "storage"
	StageDownload Stage = "download"
	StageConvert  Stage = "convert"
	StageUpload   Stage = "upload"
	StageUnknown  Stage = "unknown"
)

// StageError tags a failure with the conversion stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or StageUnknown.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}

	return StageUnknown
}
