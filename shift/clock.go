package shift

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
)

var sixty = decimal.NewFromInt(60)

// ParseClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) into fractional
// hours on a 0-24 scale. ok is false for empty or malformed input.
func ParseClock(s string) (hours decimal.Decimal, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return decimal.Zero, false
	}

	for _, p := range parts {
		if !digits(p) {
			return decimal.Zero, false
		}
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h > 23 || len(parts[0]) > 2 {
		return decimal.Zero, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m > 59 || len(parts[1]) != 2 {
		return decimal.Zero, false
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec > 59 {
			return decimal.Zero, false
		}
	}

	return decimal.NewFromInt(int64(h)).Add(decimal.NewFromInt(int64(m)).Div(sixty)), true
}

// NormalizeClock validates a clock string and returns it as "HH:MM".
func NormalizeClock(s string) (string, error) {
	if _, ok := ParseClock(s); !ok {
		return "", generic.ErrInvalidClock
	}
	parts := strings.Split(strings.TrimSpace(s), ":")
	h, _ := strconv.Atoi(parts[0])
	return twoDigits(h) + ":" + parts[1], nil
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// digits reports whether s is non-empty and all ASCII digits.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
