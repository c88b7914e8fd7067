package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is everything the checkout message needs.
type Order struct {
	Customer string
	Note     string
	Cart     Cart
	Date     time.Time
}

// BuildOrderText renders the plain (unencoded) checkout message.
//
// Each line shows the tax-inclusive unit price rounded to cents and a
// subtotal of that rounded price times the quantity. The footer totals are
// computed unrounded and only rounded when formatted, so the sum of line
// subtotals can differ from the footer by a few cents.
func BuildOrderText(o Order) string {
	var b strings.Builder

	customer := strings.TrimSpace(o.Customer)
	if customer == "" {
		customer = "—"
	}
	b.WriteString("*Pedido desde el catálogo*\n")
	fmt.Fprintf(&b, "*Precios vigentes revisados:* %s\n", FormatDate(o.Date))
	fmt.Fprintf(&b, "Cliente: %s\n\n", customer)

	for i, l := range o.Cart.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		unit := l.GrossUnitPrice().Round(2)
		subtotal := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, "%d. %s (SKU %s) x%d — %s c/u — Subtotal %s",
			i+1, l.Name, l.ID, l.Quantity, FormatARS(unit), FormatARS(subtotal))
	}

	pct := ClampPercent(o.Cart.CouponPct)
	fmt.Fprintf(&b, "\n\nSubtotal: %s", FormatARS(o.Cart.GrossTotal()))
	b.WriteString("\nPrecio final (IVA incluido)")
	if pct > 0 {
		fmt.Fprintf(&b, "\nDescuento: %d%% (%s)", pct, FormatARS(o.Cart.Discount(pct)))
		if code := strings.TrimSpace(o.Cart.CouponCode); code != "" {
			fmt.Fprintf(&b, " — Cupón: *%s*", code)
		}
	}
	if note := strings.TrimSpace(o.Note); note != "" {
		fmt.Fprintf(&b, "\nNota: %s", note)
	}
	fmt.Fprintf(&b, "\nTotal: %s", FormatARS(o.Cart.NetTotal(pct)))

	return b.String()
}
