package client

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders n with 1024 based units and at most two decimals,
// e.g. 1536 is "1.5 KB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	v := float64(n)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}

	return humanize.FtoaWithDigits(math.Round(v*100)/100, 2) + " " + sizeUnits[unit]
}

// Savings describes how the converted size compares to the original
func Savings(original, converted int64) string {
	saved := original - converted
	if saved > 0 {
		pct := float64(saved) / float64(original) * 100
		return fmt.Sprintf("Saved %s (%.1f%%)", FormatBytes(saved), pct)
	}
	return "Increased by " + FormatBytes(-saved)
}
