package codec

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"convertly-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNativeEncode(t *testing.T) {
	src := pngBytes(t, testImage(24, 16))

	tests := []struct {
		name       string
		format     models.Format
		wantFormat string
	}{
		{"png", models.FormatPNG, "png"},
		{"jpg", models.FormatJPG, "jpeg"},
		{"jpeg", models.FormatJPEG, "jpeg"},
		{"webp", models.FormatWebP, "webp"},
	}

	n := NewNative()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Encode(context.Background(), src, tt.format)
			require.NoError(t, err)
			require.NotEmpty(t, out)

			cfg, name, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, name)
			assert.Equal(t, 24, cfg.Width)
			assert.Equal(t, 16, cfg.Height)
		})
	}
}

func TestNativeEncodeAVIF(t *testing.T) {
	out, err := NewNative().Encode(context.Background(), pngBytes(t, testImage(16, 16)), models.FormatAVIF)
	require.NoError(t, err)
	require.Greater(t, len(out), 12)
	assert.Equal(t, "ftyp", string(out[4:8]))
}

func TestNativeEncodeFromJPEG(t *testing.T) {
	out, err := NewNative().Encode(context.Background(), jpegBytes(t, testImage(10, 10)), models.FormatWebP)
	require.NoError(t, err)

	_, name, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "webp", name)
}

func TestNativeEncodeErrors(t *testing.T) {
	n := NewNative()
	src := pngBytes(t, testImage(4, 4))

	t.Run("Corrupt input", func(t *testing.T) {
		_, err := n.Encode(context.Background(), []byte("definitely not an image"), models.FormatPNG)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("Truncated png", func(t *testing.T) {
		_, err := n.Encode(context.Background(), src[:20], models.FormatPNG)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("Unsupported format", func(t *testing.T) {
		_, err := n.Encode(context.Background(), src, models.Format("bmp"))
		assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := n.Encode(ctx, src, models.FormatPNG)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew(t *testing.T) {
	c, err := New(BackendNative)
	require.NoError(t, err)
	assert.Equal(t, BackendNative, c.Name())

	c, err = New("")
	require.NoError(t, err)
	assert.Equal(t, BackendNative, c.Name())

	_, err = New("sharp")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}
