package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// SaleItem is one line of a completed sale, denormalized for the receipt.
type SaleItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleRecord is the payload submitted at checkout and the receipt echoed
// back once the backend accepts it. Immutable after creation; the client
// holds it only long enough to render the receipt.
//
// ClientRef is generated by the submitting register and, together with
// RegisterID, makes submission idempotent: a retry of an already-accepted
// sale replays the stored record instead of creating a second one.
type SaleRecord struct {
	ID            string          `json:"id,omitempty"`
	RegisterID    string          `json:"register_id"`
	ClientRef     string          `json:"client_ref"`
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountType  DiscountType    `json:"discount_type"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}
