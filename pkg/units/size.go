package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrInvalidSize is returned when a size string cannot be converted to bytes.
var ErrInvalidSize = errors.New("invalid size")

// Size multipliers, base 10.
const (
	Kilobyte int64 = 1000
	Megabyte       = Kilobyte * 1000
	Gigabyte       = Megabyte * 1000
	Terabyte       = Gigabyte * 1000
	Petabyte       = Terabyte * 1000
)

// ParseSize converts an abbreviated size ("512K", "1.5g", "42") into bytes.
// Input is trimmed and case-insensitive. A trailing "b" is ignored so the
// "0B" zfs prints for empty snapshots parses as zero.
func ParseSize(s string) (int64, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if len(text) > 1 && strings.HasSuffix(text, "b") {
		text = text[:len(text)-1]
	}
	if text == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	factor := int64(1)
	switch text[len(text)-1] {
	case 'k':
		factor = Kilobyte
	case 'm':
		factor = Megabyte
	case 'g':
		factor = Gigabyte
	case 't':
		factor = Terabyte
	case 'p':
		factor = Petabyte
	}
	if factor != 1 {
		text = text[:len(text)-1]
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	scaled := value * float64(factor)
	if math.IsNaN(scaled) || scaled < 0 || scaled >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidSize, s)
	}
	return int64(math.RoundToEven(scaled)), nil
}

// FormatSize renders bytes in abbreviated base-10 form, e.g. "12.3G".
// Negative values mean "unknown" and render as "-".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-"
	}
	value, prefix := humanize.ComputeSI(float64(bytes))
	if prefix == "" {
		prefix = "B"
	}
	return humanize.FtoaWithDigits(value, 1) + strings.ToUpper(prefix)
}
