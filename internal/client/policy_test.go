package client

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFiles(t *testing.T) {
	tests := []struct {
		name         string
		files        []File
		wantAccepted []string
		wantMessages []string
	}{
		{
			name:         "Image under limit",
			files:        []File{{Name: "nine.png", MIMEType: "image/png", Size: 9 << 20}},
			wantAccepted: []string{"nine.png"},
		},
		{
			name:         "Exactly at limit",
			files:        []File{{Name: "ten.jpg", MIMEType: "image/jpeg", Size: MaxFileSize}},
			wantAccepted: []string{"ten.jpg"},
		},
		{
			name:         "Not an image",
			files:        []File{{Name: "notes.txt", MIMEType: "text/plain", Size: 10}},
			wantMessages: []string{"notes.txt is not an image file"},
		},
		{
			name:         "Missing type",
			files:        []File{{Name: "blob", Size: 10}},
			wantMessages: []string{"blob is not an image file"},
		},
		{
			name:         "Too large",
			files:        []File{{Name: "huge.png", MIMEType: "image/png", Size: 11 << 20}},
			wantMessages: []string{"huge.png is too large (max 10MB)"},
		},
		{
			name:         "Type checked before size",
			files:        []File{{Name: "huge.txt", MIMEType: "text/plain", Size: 11 << 20}},
			wantMessages: []string{"huge.txt is not an image file"},
		},
		{
			name: "Bad files do not block good ones",
			files: []File{
				{Name: "a.png", MIMEType: "image/png", Size: 1},
				{Name: "b.txt", MIMEType: "text/plain", Size: 1},
				{Name: "c.webp", MIMEType: "image/webp", Size: 2},
				{Name: "d.png", MIMEType: "image/png", Size: 11 << 20},
			},
			wantAccepted: []string{"a.png", "c.webp"},
			wantMessages: []string{"b.txt is not an image file", "d.png is too large (max 10MB)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, rejected := ValidateFiles(tt.files)

			var names []string
			for _, f := range accepted {
				names = append(names, f.Name)
			}
			var messages []string
			for _, r := range rejected {
				messages = append(messages, r.Error())
			}

			assert.Equal(t, tt.wantAccepted, names)
			assert.Equal(t, tt.wantMessages, messages)
		})
	}
}

func TestNewFile(t *testing.T) {
	data := bytes.Repeat([]byte{1}, 11<<20)
	f := NewFile("big.png", data, "image/png")
	assert.Equal(t, int64(11<<20), f.Size)

	_, rejected := ValidateFiles([]File{f})
	require.Len(t, rejected, 1)
	assert.Equal(t, "big.png", rejected[0].Name)
	assert.Contains(t, rejected[0].Message, "too large (max 10MB)")
}
