package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatARS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$\u00a00,00"},
		{in: "5", want: "$\u00a05,00"},
		{in: "999.999", want: "$\u00a01.000,00"},
		{in: "3630", want: "$\u00a03.630,00"},
		{in: "1234.567", want: "$\u00a01.234,57"},
		{in: "1234567.8", want: "$\u00a01.234.567,80"},
		{in: "-1500.5", want: "-$\u00a01.500,50"},
		{in: "-0.001", want: "$\u00a00,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatARS(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatARS(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatARSWhole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$\u00a00"},
		{in: "360000", want: "$\u00a0360.000"},
		{in: "1234.5", want: "$\u00a01.235"},
		{in: "-220000", want: "-$\u00a0220.000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatARSWhole(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatARSWhole(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2026, 11, 9, 23, 0, 0, 0, time.UTC))
	if got != "9/11/2026" {
		t.Errorf("FormatDate() = %q, want %q", got, "9/11/2026")
	}
}
