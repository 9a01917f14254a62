package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{400, "400 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1234, "1.21 KB"},
		{2047, "2 KB"},
		{1048576, "1 MB"},
		{10 << 20, "10 MB"},
		{1 << 30, "1 GB"},
		{5 << 40, "5120 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.in))
		})
	}
}

func TestSavings(t *testing.T) {
	tests := []struct {
		name      string
		original  int64
		converted int64
		want      string
	}{
		{"Smaller", 1000, 600, "Saved 400 Bytes (40.0%)"},
		{"Larger", 600, 1000, "Increased by 400 Bytes"},
		{"Equal", 500, 500, "Increased by 0 Bytes"},
		{"Fraction", 3 << 20, 1 << 20, "Saved 2 MB (66.7%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Savings(tt.original, tt.converted))
		})
	}
}
