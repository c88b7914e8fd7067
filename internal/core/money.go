package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyPrefix is the es-AR peso sign followed by a no-break space.
const currencyPrefix = "$\u00a0"

// FormatARS formats an amount as es-AR currency with two decimals: "$ 1.234,56".
// The space after the sign is U+00A0.
func FormatARS(d decimal.Decimal) string {
	return formatARS(d, 2)
}

// FormatARSWhole formats an amount as es-AR currency without decimals: "$ 1.235".
func FormatARSWhole(d decimal.Decimal) string {
	return formatARS(d, 0)
}

func formatARS(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	out := currencyPrefix + groupThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg && strings.Trim(s, "0.") != "" {
		return "-" + out
	}
	return out
}

// groupThousands inserts "." every three digits from the right.
func groupThousands(digits string) string {
	var b strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatDate formats t as es-AR short date: day/month/year without padding.
func FormatDate(t time.Time) string {
	return t.Format("2/1/2006")
}
