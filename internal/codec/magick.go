package codec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"convertly-go/internal/models"

	"github.com/rs/zerolog/log"
)

// Magick shells out to ImageMagick, reading the source from stdin and
// writing the converted image to stdout.
type Magick struct {
	binary []string
}

// NewMagick looks for ImageMagick 7 ("magick") first and falls back to the
// legacy "convert" entry point.
func NewMagick() (*Magick, error) {
	m := &Magick{}
	commands := [][]string{{"magick", "-version"}, {"convert", "-version"}}

	for _, command := range commands {
		_, err := exec.Command(command[0], command[1:]...).Output()
		if err != nil {
			log.Debug().Strs("command", command).Msg("binary not found")
			continue
		}

		log.Debug().Strs("command", command).Msg("binary found")
		m.binary = command[:len(command)-1]
		break
	}

	if len(m.binary) == 0 {
		return nil, ErrBinaryNotFound
	}

	return m, nil
}

func (m *Magick) Name() string {
	return BackendMagick
}

func (m *Magick) Encode(ctx context.Context, data []byte, format models.Format) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, format)
	}

	args := append(m.binary[1:len(m.binary):len(m.binary)], magickArgs(format)...)
	cmd := exec.CommandContext(ctx, m.binary[0], args...)
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Error().
			Err(err).
			Str("format", format.String()).
			Str("stderr", stderr.String()).
			Msg("magick command failed")
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: empty output", ErrEncode, format)
	}

	log.Debug().
		Str("format", format.String()).
		Int("bytes", stdout.Len()).
		Msg("magick command finished")

	return stdout.Bytes(), nil
}

// magickArgs builds "- -auto-orient <coder>:-"
func magickArgs(format models.Format) []string {
	coder := format.String()
	if format.IsJPEG() {
		coder = "jpeg"
	}
	return []string{"-", "-auto-orient", coder + ":-"}
}
