package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts user-supplied text to an amount.
//
// Surrounding whitespace is ignored. Any syntactically valid float is
// accepted, including zero and negative values (refunds). NaN and infinities
// are rejected.
//
// Examples:
//   ParseAmount("3.50")  -> 3.5, nil
//   ParseAmount(" -2 ")  -> -2, nil
//   ParseAmount("1e3")   -> 1000, nil
//   ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount returns the shortest decimal text that parses back to v.
// Whole numbers keep one decimal place: 8 is "8.0".
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
