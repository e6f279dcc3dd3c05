package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// Totals is the money breakdown for one checkout. All values are
// rounded to two decimal places.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Calculator computes totals for a set of cart lines. It is a narrow
// interface so tests can supply a deterministic fake for the tax rules.
type Calculator interface {
	Totals(lines []domain.CartLine, discount decimal.Decimal, discountType domain.DiscountType) (Totals, error)
}

var hundred = decimal.NewFromInt(100)

// IVACalculator prices with tax-inclusive unit prices: the subtotal
// already contains IVA, and Tax reports the included portion of the
// discounted total.
//
// Discount clamping: PERCENTAGE is clamped to 0..100, FIXED_AMOUNT is
// clamped to the subtotal. The total can reach zero but never goes
// negative.
type IVACalculator struct {
	Rate decimal.Decimal // e.g. 0.13 for 13% IVA
}

func NewIVACalculator(rate decimal.Decimal) *IVACalculator {
	return &IVACalculator{Rate: rate}
}

func (c *IVACalculator) Totals(lines []domain.CartLine, discount decimal.Decimal, discountType domain.DiscountType) (Totals, error) {
	if c.Rate.IsNegative() {
		return Totals{}, fmt.Errorf("invalid tax rate %s", c.Rate)
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, fmt.Errorf("line %s has non-positive quantity %d", line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("line %s has negative unit price %s", line.ProductID, line.UnitPrice)
		}
		subtotal = subtotal.Add(line.LineTotal())
	}
	subtotal = subtotal.Round(2)

	var off decimal.Decimal
	switch discountType {
	case domain.DiscountPercentage:
		pct := clamp(discount, decimal.Zero, hundred)
		off = subtotal.Mul(pct).Div(hundred)
	case domain.DiscountFixed:
		off = clamp(discount, decimal.Zero, subtotal)
	default:
		return Totals{}, fmt.Errorf("unknown discount type %q", discountType)
	}
	off = off.Round(2)

	total := subtotal.Sub(off)
	// Included tax portion: total - total / (1 + rate).
	tax := total.Sub(total.Div(decimal.NewFromInt(1).Add(c.Rate))).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: off,
		Total:    total,
	}, nil
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
