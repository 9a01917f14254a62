package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"webp", "webp", FormatWebP, false},
		{"avif", "avif", FormatAVIF, false},
		{"jpg", "jpg", FormatJPG, false},
		{"jpeg", "jpeg", FormatJPEG, false},
		{"png", "png", FormatPNG, false},
		{"Upper case", "PNG", FormatPNG, false},
		{"Surrounding space", " webp ", FormatWebP, false},
		{"bmp", "bmp", "", true},
		{"Empty", "", "", true},
		{"Dotted", ".png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMIMEType(t *testing.T) {
	assert.Equal(t, "image/webp", FormatWebP.MIMEType())
	assert.Equal(t, "image/avif", FormatAVIF.MIMEType())
	assert.Equal(t, "image/jpeg", FormatJPG.MIMEType())
	assert.Equal(t, "image/jpeg", FormatJPEG.MIMEType())
	assert.Equal(t, "image/png", FormatPNG.MIMEType())
	assert.Equal(t, "application/octet-stream", Format("bmp").MIMEType())
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{FormatWebP, FormatAVIF, FormatJPG, FormatJPEG, FormatPNG} {
		assert.True(t, f.Valid(), f.String())
	}
	assert.False(t, Format("bmp").Valid())
	assert.False(t, Format("PNG").Valid())
	assert.False(t, Format("").Valid())
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, ".jpg", FormatJPG.Extension())
	assert.Equal(t, ".jpeg", FormatJPEG.Extension())
	assert.True(t, FormatJPEG.IsJPEG())
	assert.False(t, FormatPNG.IsJPEG())
}
