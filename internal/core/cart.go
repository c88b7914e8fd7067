package core

// cart.go implements the stock-bounded cart and its totals.
//
// Every line keeps 1 <= Quantity <= Stock of its product snapshot. Totals are
// computed with decimal arithmetic on tax-inclusive prices and are never
// rounded here; rounding belongs to formatting.

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock   = errors.New("product out of stock")
	ErrLineNotFound = errors.New("cart line not found")
)

var hundred = decimal.NewFromInt(100)

// Cart is the persisted per-visitor cart state.
type Cart struct {
	Lines      []CartLine `json:"lines"`
	CouponCode string     `json:"couponCode,omitempty"`
	CouponPct  int        `json:"couponPct"`
}

// Totals summarizes a cart for display.
type Totals struct {
	Gross       decimal.Decimal `json:"gross"`
	DiscountPct int             `json:"discountPct"`
	Discount    decimal.Decimal `json:"discount"`
	Net         decimal.Decimal `json:"net"`
	Units       int             `json:"units"`
}

func (c *Cart) index(id string) int {
	for i, l := range c.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Add puts qty units of p in the cart, capped at p.Stock. A qty below 1 counts
// as 1. ErrOutOfStock is returned, and nothing changes, when p has no stock.
// An existing line takes the fresh product snapshot.
func (c *Cart) Add(p Product, qty int) error {
	available := max(0, p.Stock)
	if available <= 0 {
		return ErrOutOfStock
	}
	qty = max(1, qty)

	if i := c.index(p.ID); i >= 0 {
		c.Lines[i] = CartLine{Product: p, Quantity: min(c.Lines[i].Quantity+qty, available)}
		return nil
	}
	c.Lines = append(c.Lines, CartLine{Product: p, Quantity: min(qty, available)})
	return nil
}

// Increment adds one unit to the line, saturating at its stock.
// It reports whether the line exists.
func (c *Cart) Increment(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	l := &c.Lines[i]
	l.Quantity = clampQuantity(l.Quantity+1, l.Stock)
	return true
}

// Decrement removes one unit from the line, never going below 1.
// It reports whether the line exists.
func (c *Cart) Decrement(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	l := &c.Lines[i]
	l.Quantity = clampQuantity(l.Quantity-1, l.Stock)
	return true
}

// Remove deletes the line. It reports whether the line existed.
func (c *Cart) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Clear empties the cart. The applied coupon is kept.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Units returns the number of items across all lines.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// GrossTotal is the sum of unit price * (1 + tax) * quantity, unrounded.
func (c *Cart) GrossTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Discount is GrossTotal * clamp(pct, 0, 100) / 100.
func (c *Cart) Discount(pct int) decimal.Decimal {
	return c.GrossTotal().Mul(decimal.NewFromInt(int64(ClampPercent(pct)))).Div(hundred)
}

// NetTotal is GrossTotal minus Discount(pct).
func (c *Cart) NetTotal(pct int) decimal.Decimal {
	return c.GrossTotal().Sub(c.Discount(pct))
}

// ApplyCoupon sets the cart coupon from a typed code. An empty code clears
// it. An unknown code clears it and returns ErrInvalidCoupon.
func (c *Cart) ApplyCoupon(code string) error {
	normalized, pct, err := LookupCoupon(code)
	if err != nil {
		c.CouponCode, c.CouponPct = "", 0
		return err
	}
	c.CouponCode, c.CouponPct = normalized, pct
	return nil
}

// Totals computes gross, discount and net using the applied coupon.
func (c *Cart) Totals() Totals {
	pct := ClampPercent(c.CouponPct)
	return Totals{
		Gross:       c.GrossTotal(),
		DiscountPct: pct,
		Discount:    c.Discount(pct),
		Net:         c.NetTotal(pct),
		Units:       c.Units(),
	}
}

// Sanitize restores the line invariants on state read from storage: lines
// without stock are dropped, duplicate ids keep the first line, quantities are
// clamped to [1, stock] and a coupon no longer known is cleared.
// It reports whether anything changed.
func (c *Cart) Sanitize() bool {
	changed := false
	kept := c.Lines[:0]
	seen := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if l.Stock <= 0 {
			changed = true
			continue
		}
		if _, dup := seen[l.ID]; dup {
			changed = true
			continue
		}
		seen[l.ID] = struct{}{}
		if q := clampQuantity(l.Quantity, l.Stock); q != l.Quantity {
			l.Quantity = q
			changed = true
		}
		kept = append(kept, l)
	}
	c.Lines = kept

	if c.CouponPct != 0 || c.CouponCode != "" {
		code, pct, err := LookupCoupon(c.CouponCode)
		if err != nil || pct != c.CouponPct || code != c.CouponCode {
			c.CouponCode, c.CouponPct = "", 0
			if err == nil && pct > 0 {
				c.CouponCode, c.CouponPct = code, pct
			}
			changed = true
		}
	}
	return changed
}

func clampQuantity(q, stock int) int {
	return max(1, min(q, stock))
}
