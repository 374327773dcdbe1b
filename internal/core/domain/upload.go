package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	imageMimePrefix  = "image/"
	defaultBaseName  = "image"
	fallbackBaseName = "converted"
)

// SelectUpload picks the file to convert from a message and derives the name of the converted
// file. Documents must declare an image MIME type and fit in maxFileSize bytes; for photos the
// variant with the most pixels is used.
func SelectUpload(message *Message, maxFileSize int64, ext string) (Upload, error) {
	if message.Document != nil {
		doc := message.Document

		if !strings.HasPrefix(strings.ToLower(doc.MimeType), imageMimePrefix) {
			return Upload{}, fmt.Errorf("%w: %q", ErrUnsupportedType, doc.MimeType)
		}

		if doc.FileSize > maxFileSize {
			return Upload{}, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, doc.FileSize)
		}

		if doc.FileID == "" {
			return Upload{}, ErrFileUnavailable
		}

		return Upload{FileID: doc.FileID, Filename: documentFilename(doc.FileName, ext)}, nil
	}

	photo, ok := LargestPhoto(message.Photos)
	if !ok || photo.FileID == "" {
		return Upload{}, ErrFileUnavailable
	}

	base := fallbackBaseName
	if photo.FileUniqueID != "" {
		base = photo.FileUniqueID
	}

	return Upload{FileID: photo.FileID, Filename: base + ext}, nil
}

// LargestPhoto returns the variant with the largest pixel area. Ties go to the later variant,
// Telegram lists sizes in ascending order.
func LargestPhoto(photos []PhotoSize) (PhotoSize, bool) {
	if len(photos) == 0 {
		return PhotoSize{}, false
	}

	best := photos[0]
	for _, p := range photos[1:] {
		if p.Width*p.Height >= best.Width*best.Height {
			best = p
		}
	}

	return best, true
}

func documentFilename(name, ext string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || base == "." || base == "/" {
		base = defaultBaseName
	}

	return base + ext
}
