package converter

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"webpbot/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	// decoders for accepted input formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// Extension of every converted file.
	Extension = ".webp"
	// LossyQuality is the fixed quality used for images without transparency.
	LossyQuality = 85
	// DefaultMaxPixels bounds width*height of accepted images.
	DefaultMaxPixels = 100_000_000
)

// decodeFile reads the first frame of the image at path. Anything the registered decoders
// reject is reported as domain.ErrUnreadableImage.
func decodeFile(ctx context.Context, path string, maxPixels int) (image.Image, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("error opening input: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrUnreadableImage, err)
	}

	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d", domain.ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, format, fmt.Errorf("error rewinding input: %w", err)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, format, fmt.Errorf("%w: %w", domain.ErrUnreadableImage, err)
	}

	log.Debug().
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Str("model", fmt.Sprintf("%T", img)).
		Msg("decoded image")

	return img, format, nil
}

// hasTransparency reports whether the decoded image carries an alpha channel or a transparent
// palette entry. Decoders return RGBA for opaque truecolor input, so those only count when a
// pixel is actually translucent.
func hasTransparency(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Alpha, *image.Alpha16, *image.NYCbCrA:
		return true
	case *image.RGBA:
		return !m.Opaque()
	case *image.RGBA64:
		return !m.Opaque()
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}

	return false
}

func encodingFor(img image.Image) domain.Encoding {
	if hasTransparency(img) {
		return domain.Lossless
	}

	return domain.Lossy
}

// flatten draws img onto an opaque white canvas.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)

	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// replaceAtomically lets produce write a sibling temp file and renames it to outputPath once
// produce succeeds, so outputPath never holds a partial image.
func replaceAtomically(outputPath string, produce func(tmpPath string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".partial-*"+filepath.Ext(outputPath))
	if err != nil {
		return fmt.Errorf("error creating output: %w", err)
	}

	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error creating output: %w", err)
	}

	if err := produce(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("error moving output into place: %w", err)
	}

	return nil
}
