package core

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Coupons maps upper-case coupon codes to their discount percentage.
var Coupons = map[string]int{
	"CLIENTEVIP": 10,
	"AMIGOS":     5,
}

// ErrInvalidCoupon is returned for codes that are not in Coupons.
var ErrInvalidCoupon = errors.New("invalid coupon")

// InvalidCouponMessage is the inline validation text for ErrInvalidCoupon.
const InvalidCouponMessage = "Cupón inválido"

// NormalizeCouponCode trims and upper-cases a code as typed by a visitor.
func NormalizeCouponCode(code string) string {
	return cases.Upper(language.Spanish).String(strings.TrimSpace(code))
}

// LookupCoupon resolves a code to its percentage.
// An empty code is not an error and yields 0.
func LookupCoupon(code string) (string, int, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return "", 0, nil
	}
	pct, ok := Coupons[code]
	if !ok || pct <= 0 {
		return code, 0, ErrInvalidCoupon
	}
	return code, ClampPercent(pct), nil
}

// ClampPercent limits a percentage to [0, 100].
func ClampPercent(pct int) int {
	return max(0, min(100, pct))
}
