package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by the backend. The POS client
// treats it as read-only reference data; only the backend mutates stock.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	CategoryID     string          `json:"category_id"`
	Price          decimal.Decimal `json:"price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Stock          int             `json:"stock"`
}

// UnitPrice returns the price a cart line should snapshot, depending on
// whether the register is in wholesale mode. Products without a wholesale
// price fall back to the retail price.
func (p Product) UnitPrice(wholesale bool) decimal.Decimal {
	if wholesale && p.WholesalePrice.IsPositive() {
		return p.WholesalePrice
	}
	return p.Price
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
