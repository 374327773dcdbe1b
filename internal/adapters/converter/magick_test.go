package converter

import (
	"image"
	"path/filepath"
	"testing"
	"webpbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMagickOrSkip(t *testing.T) *MagickConverter {
	t.Helper()

	mc, err := NewMagickConverter(DefaultMaxPixels)
	if err != nil {
		t.Skip("imagemagick not installed")
	}

	return mc
}

func TestMagickOptions(t *testing.T) {
	assert.Equal(t, []string{"-define", "webp:lossless=true"}, magickOptions(domain.Lossless))
	assert.Contains(t, magickOptions(domain.Lossy), "85")
	assert.Contains(t, magickOptions(domain.Lossy), "remove")
}

func TestMagickConvert(t *testing.T) {
	mc := newMagickOrSkip(t)

	tests := []struct {
		name string
		img  image.Image
		want domain.Encoding
	}{
		{name: "transparent", img: transparentSample(), want: domain.Lossless},
		{name: "opaque", img: opaqueSample(20, 10), want: domain.Lossy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writePNG(t, dir, tc.img)
			output := filepath.Join(dir, "output.webp")

			encoding, err := mc.Convert(t.Context(), input, output)
			require.NoError(t, err)
			assert.Equal(t, tc.want, encoding)

			got := decodeWebP(t, output)
			assert.Equal(t, tc.img.Bounds().Size(), got.Bounds().Size())
		})
	}
}

func TestMagickConvertUnreadable(t *testing.T) {
	mc := &MagickConverter{magickBinary: []string{"magick"}, maxPixels: DefaultMaxPixels}

	dir := t.TempDir()
	input := filepath.Join(dir, "input")
	require.NoError(t, writeBytes(input, []byte("nope")))

	_, err := mc.Convert(t.Context(), input, filepath.Join(dir, "output.webp"))
	require.ErrorIs(t, err, domain.ErrUnreadableImage)
}
