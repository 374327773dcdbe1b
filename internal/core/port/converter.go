package port

import (
	"context"
	"webpbot/internal/core/domain"
)

type ImageConverter interface {
	// Convert reads the image at inputPath and writes the converted image to outputPath,
	// returning the encoding that was used. Undecodable input fails with domain.ErrUnreadableImage.
	Convert(ctx context.Context, inputPath, outputPath string) (domain.Encoding, error)
	// Extension returns the file extension of converted images, including the leading dot.
	Extension() string
}
