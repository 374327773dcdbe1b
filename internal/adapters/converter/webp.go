package converter

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"webpbot/internal/core/domain"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

type encodeFunc func(w io.Writer, img image.Image, opts *webp.Options) error

// WebPConverter encodes images with libwebp. Transparent images are stored losslessly, all others
// are flattened and stored lossy at LossyQuality.
type WebPConverter struct {
	maxPixels int
	encode    encodeFunc
}

func NewWebPConverter(maxPixels int) *WebPConverter {
	return &WebPConverter{maxPixels: maxPixels, encode: webp.Encode}
}

func (c *WebPConverter) Extension() string {
	return Extension
}

func (c *WebPConverter) Convert(ctx context.Context, inputPath, outputPath string) (domain.Encoding, error) {
	img, format, err := decodeFile(ctx, inputPath, c.maxPixels)
	if err != nil {
		return "", err
	}

	encoding := encodingFor(img)

	var opts *webp.Options
	if encoding == domain.Lossless {
		img = straightAlpha(img)
		opts = &webp.Options{Lossless: true, Exact: true}
	} else {
		img = webp.NewRGBImageFrom(flatten(img))
		opts = &webp.Options{Quality: LossyQuality}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	err = replaceAtomically(outputPath, func(tmpPath string) error {
		return c.writeFile(tmpPath, img, opts)
	})
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("input", format).
		Str("encoding", string(encoding)).
		Str("path", outputPath).
		Msg("wrote webp image")

	return encoding, nil
}

// straightAlpha copies img into an 8-bit buffer holding non-premultiplied samples. The encoder
// hands *image.RGBA pixels to libwebp unchanged, and libwebp expects straight alpha; any other
// image type would be premultiplied on the way.
func straightAlpha(img image.Image) *image.RGBA {
	n := imaging.Clone(img)

	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

func (c *WebPConverter) writeFile(path string, img image.Image, opts *webp.Options) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("error opening output: %w", err)
	}

	w := bufio.NewWriter(f)

	if err := c.encode(w, img, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("error encoding webp: %w", err)
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing output: %w", err)
	}

	return f.Close()
}
