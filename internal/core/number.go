package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseLocaleNumber converts spreadsheet numbers to float64.
//
// When the value contains a comma it is read in es-AR form: dots are thousands
// separators and the first comma is the decimal point ("12.345,67" = 12345.67).
// Otherwise it is parsed as a plain number. Empty, invalid, NaN and infinite
// values yield 0.
func ParseLocaleNumber(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
