package scheme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const rupeeSymbol = "₹"

// FormatRupees renders n with Indian digit grouping: the last three digits,
// then groups of two (1234567 -> "₹12,34,567").
func FormatRupees(n int64) string {
	if n < 0 {
		return rupeeSymbol + "-" + groupIndian(strconv.FormatUint(uint64(-n), 10))
	}
	return rupeeSymbol + groupIndian(strconv.FormatInt(n, 10))
}

func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead == 0 {
		lead = 2
	}
	b.WriteString(head[:lead])
	for i := lead; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// ParseRupees strips everything except digits, sign and decimal point and
// returns the rounded amount. It accepts anything FormatRupees produces.
func ParseRupees(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, fmt.Errorf("parse amount %q: no digits", s)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return int64(math.Round(v)), nil
}

// roundAmount rounds half away from zero, matching how amounts are displayed.
func roundAmount(v float64) int64 {
	return int64(math.Round(v))
}
