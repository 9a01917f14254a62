package codec

import (
	"bytes"
	"context"
	"fmt"

	"convertly-go/internal/models"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/rs/zerolog/log"

	// Extra decoders beyond the ones imaging registers
	_ "golang.org/x/image/webp"
)

// Native converts images in-process. WebP output is lossless VP8L.
type Native struct{}

func NewNative() *Native {
	return &Native{}
}

func (n *Native) Name() string {
	return BackendNative
}

func (n *Native) Encode(ctx context.Context, data []byte, format models.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Decoding large images can take a while; don't start encoding for a
	// request that is already gone.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch {
	case format.IsJPEG():
		err = imaging.Encode(&buf, img, imaging.JPEG)
	case format == models.FormatPNG:
		err = imaging.Encode(&buf, img, imaging.PNG)
	case format == models.FormatWebP:
		err = nativewebp.Encode(&buf, img, nil)
	case format == models.FormatAVIF:
		err = avif.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}

	log.Debug().
		Str("format", format.String()).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Int("bytes", buf.Len()).
		Msg("encoded image")

	return buf.Bytes(), nil
}
