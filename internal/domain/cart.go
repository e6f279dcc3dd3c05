package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how the register-level discount is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

// CartLine is one product in the open cart. UnitPrice is snapshotted at
// add time (retail or wholesale), so later price changes in the catalog
// do not retroactively reprice the cart.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Wholesale bool            `json:"wholesale"`
}

// LineTotal is quantity times the snapshotted unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is a saved draft of in-progress register state. Lines are
// copied by value at save time so later cart mutation cannot touch a
// stored draft.
type CartSnapshot struct {
	Lines         []CartLine      `json:"lines"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountType  DiscountType    `json:"discount_type"`
	Notes         string          `json:"notes"`
	CustomerID    string          `json:"customer_id,omitempty"`
	WholesaleMode bool            `json:"wholesale_mode"`
	SavedAt       time.Time       `json:"saved_at"`
}
