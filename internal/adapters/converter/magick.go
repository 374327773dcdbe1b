package converter

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"webpbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// MagickConverter shells out to ImageMagick. The transparency decision is made in Go so both
// backends agree on when to encode losslessly.
type MagickConverter struct {
	magickBinary []string
	maxPixels    int
}

func NewMagickConverter(maxPixels int) (*MagickConverter, error) {
	mc := &MagickConverter{maxPixels: maxPixels}
	commands := [][]string{{"magick", "-version"}, {"convert", "-version"}}

	for _, command := range commands {
		_, err := exec.Command(command[0], command[1:]...).Output()
		if err != nil {
			log.Debug().Strs("command", command).Msg("binary not found")
			continue
		}

		log.Debug().Strs("command", command).Msg("binary found")
		mc.magickBinary = command[:len(command)-1]
		break
	}

	if len(mc.magickBinary) == 0 {
		return nil, errors.New("magick binary not available")
	}

	return mc, nil
}

func (m *MagickConverter) Extension() string {
	return Extension
}

func (m *MagickConverter) Convert(ctx context.Context, inputPath, outputPath string) (domain.Encoding, error) {
	img, _, err := decodeFile(ctx, inputPath, m.maxPixels)
	if err != nil {
		return "", err
	}

	encoding := encodingFor(img)

	err = replaceAtomically(outputPath, func(tmpPath string) error {
		args := append([]string{}, m.magickBinary...)
		args = append(args, inputPath+"[0]")
		args = append(args, magickOptions(encoding)...)
		args = append(args, "webp:"+tmpPath)

		out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
		if err != nil {
			log.Error().Bytes("magickOutput", out).Strs("args", args).Msg("magick command failed")
			return err
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	log.Debug().Str("encoding", string(encoding)).Msg("magick command finished")

	return encoding, nil
}

func magickOptions(encoding domain.Encoding) []string {
	if encoding == domain.Lossless {
		return []string{"-define", "webp:lossless=true"}
	}

	return []string{"-background", "white", "-alpha", "remove", "-alpha", "off",
		"-quality", strconv.Itoa(LossyQuality)}
}
