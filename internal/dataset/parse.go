package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseLeadingInt parses the optional sign and decimal digits at the start
// of s, after leading whitespace. Trailing characters are ignored, so
// "2019-05-01" and "39538223.0" both parse. ok is false when no digit is found.
func ParseLeadingInt(s string) (n int64, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseYear extracts the year from an ISO-like, year-first date string.
func ParseYear(date string) (int, bool) {
	head, _, _ := strings.Cut(date, "-")
	y, ok := ParseLeadingInt(head)
	if !ok {
		return 0, false
	}
	return int(y), true
}

// ParsePercent parses the numeric prefix of a percentage, after leading
// whitespace. Trailing characters such as "%" are ignored, so "53.1abc"
// parses as 53.1. A value with no numeric prefix yields NaN, as does one
// that overflows to infinity.
func ParsePercent(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n")
	end := leadingFloatLen(s)
	if end == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// leadingFloatLen returns the length of the longest decimal float prefix
// of s: sign, digits, fraction, and exponent. It is 0 when no digit is found.
func leadingFloatLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
