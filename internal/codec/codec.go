package codec

import (
	"context"
	"errors"
	"fmt"

	"convertly-go/internal/models"
)

const (
	BackendNative = "native"
	BackendMagick = "magick"
)

var (
	ErrDecode             = errors.New("decode image")
	ErrEncode             = errors.New("encode image")
	ErrUnsupportedBackend = errors.New("unsupported codec backend")
	ErrBinaryNotFound     = errors.New("magick binary not available")
)

// Codec converts raw image bytes into the requested target format.
type Codec interface {
	// Encode decodes data as an image and re-encodes it as format.
	Encode(ctx context.Context, data []byte, format models.Format) ([]byte, error)

	// Name identifies the backend in logs and health output.
	Name() string
}

// New creates the codec backend selected in configuration
func New(backend string) (Codec, error) {
	switch backend {
	case BackendNative, "":
		return NewNative(), nil
	case BackendMagick:
		return NewMagick()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
}
