package models

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the image encoding a client asks the server to produce.
// The selector's own spelling doubles as the output file extension.
type Format string

const (
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

var ErrUnsupportedFormat = errors.New("unsupported target format")

// SupportedFormats is the selector list offered to clients. FormatJPEG is
// accepted as an alias but not advertised.
var SupportedFormats = []Format{FormatWebP, FormatAVIF, FormatJPG, FormatPNG}

// ParseFormat converts a selector value into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatWebP, FormatAVIF, FormatJPG, FormatJPEG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is one of the known selectors
func (f Format) Valid() bool {
	switch f {
	case FormatWebP, FormatAVIF, FormatJPG, FormatJPEG, FormatPNG:
		return true
	}
	return false
}

// IsJPEG reports whether f encodes to JPEG, regardless of spelling
func (f Format) IsJPEG() bool {
	return f == FormatJPG || f == FormatJPEG
}

// Extension returns the output file extension including the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// MIMEType returns the content type of files encoded in this format
func (f Format) MIMEType() string {
	switch {
	case f == FormatWebP:
		return "image/webp"
	case f == FormatAVIF:
		return "image/avif"
	case f.IsJPEG():
		return "image/jpeg"
	case f == FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
