package lyrics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time token matches no known grammar.
var ErrInvalidTime = errors.New("invalid time expression")

const (
	msPerSecond = 1_000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// ParseTimeExpression converts a time token to milliseconds.
//
// Accepted forms, tried in order: "1500ms", "1.5s", clock values
// ("SS.f", "MM:SS[.fff]", "HH:MM:SS[.fff]") and bare millisecond integers.
func ParseTimeExpression(token string) (int64, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return 0, ErrInvalidTime
	case strings.HasSuffix(token, "ms"):
		n, err := strconv.ParseInt(strings.TrimSuffix(token, "ms"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		return n, nil
	case strings.HasSuffix(token, "s"):
		num := strings.TrimSuffix(token, "s")
		if !isDecimal(num) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		ms := f * msPerSecond
		if ms >= math.MaxInt64 || ms < math.MinInt64 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, token)
		}
		return int64(ms), nil
	case strings.ContainsAny(token, ":."):
		return parseClock(token)
	case isDigits(token):
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
}

// ParseTimeLenient is ParseTimeExpression that degrades malformed tokens to 0.
func ParseTimeLenient(token string) int64 {
	ms, err := ParseTimeExpression(token)
	if err != nil {
		return 0
	}
	return ms
}

// parseClock parses "SS.fff", "MM:SS[.fff]" and "HH:MM:SS[.fff]".
func parseClock(token string) (int64, error) {
	clock, fraction, hasFraction := strings.Cut(token, ".")
	parts := strings.Split(clock, ":")
	if len(parts) > 3 || (len(parts) == 1 && !hasFraction) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
	}

	fields := make([]int64, len(parts))
	for i, p := range parts {
		if !isDigits(p) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
		}
		fields[i] = n
	}

	fracMs, err := parseFraction(fraction)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, token)
	}

	// Right to left: seconds, minutes, hours.
	var total int64
	for i, unit := range []int64{msPerSecond, msPerMinute, msPerHour}[:len(fields)] {
		total += fields[len(fields)-1-i] * unit
	}
	return total + fracMs, nil
}

// parseFraction normalizes a decimal fraction to exactly three digits.
func parseFraction(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if !isDigits(s) {
		return 0, ErrInvalidTime
	}
	if len(s) > 3 {
		s = s[:3]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	switch len(s) {
	case 1:
		n *= 100
	case 2:
		n *= 10
	}
	return n, nil
}

// FormatTimeExpression renders milliseconds as "HH:MM:SS.fff".
func FormatTimeExpression(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign,
		ms/msPerHour, ms%msPerHour/msPerMinute, ms%msPerMinute/msPerSecond, ms%msPerSecond)
}

// isDecimal reports whether s is digits with at most one decimal point.
func isDecimal(s string) bool {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return false
	}
	return (whole == "" || isDigits(whole)) && (frac == "" || isDigits(frac))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
