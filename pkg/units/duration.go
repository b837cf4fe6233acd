package units

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned when a duration string has no recognised segment.
var ErrInvalidDuration = errors.New("invalid duration")

// Tick is the 100ns unit selected by the "z" suffix.
const Tick = 100 * time.Nanosecond

var durationSegment = regexp.MustCompile(`([0-9]+)([dhmsfz])`)

var durationUnits = map[byte]time.Duration{
	'd': 24 * time.Hour,
	'h': time.Hour,
	'm': time.Minute,
	's': time.Second,
	'f': time.Millisecond,
	'z': Tick,
}

// ParseDuration parses a keep duration. A bare integer is a number of days;
// anything else must consist of <digits><unit> segments, which are summed.
func ParseDuration(s string) (time.Duration, error) {
	text := strings.ToLower(strings.TrimSpace(s))

	if days, err := strconv.ParseInt(text, 10, 64); err == nil {
		if days < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrInvalidDuration, s)
		}
		d, ok := scale(days, durationUnits['d'])
		if !ok {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, s)
		}
		return d, nil
	}

	matches := durationSegment.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	var total time.Duration
	pos := 0
	for _, m := range matches {
		if strings.TrimSpace(text[pos:m[0]]) != "" {
			return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidDuration, text[pos:m[0]], s)
		}
		n, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, s)
		}
		d, ok := scale(n, durationUnits[text[m[4]]])
		if !ok || total > math.MaxInt64-d {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, s)
		}
		total += d
		pos = m[1]
	}
	if strings.TrimSpace(text[pos:]) != "" {
		return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidDuration, text[pos:], s)
	}

	return total, nil
}

func scale(n int64, unit time.Duration) (time.Duration, bool) {
	if n > int64(math.MaxInt64/unit) {
		return 0, false
	}
	return time.Duration(n) * unit, true
}
