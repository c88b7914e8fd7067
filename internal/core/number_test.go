package core

import "testing"

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.345,67", 12345.67},
		{"1234.5", 1234.5},
		{"", 0},
		{"abc", 0},
		{" 1 234,5 ", 1234.5},
		{"1.234.567,89", 1234567.89},
		{"1,5,2", 0},
		{"-3,5", -3.5},
		{"42", 42},
		{"NaN", 0},
		{"Inf", 0},
		{"1e999", 0},
		{"$ 100", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLocaleNumber(tt.in); got != tt.want {
				t.Errorf("ParseLocaleNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
