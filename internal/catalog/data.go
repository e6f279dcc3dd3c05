package catalog

import "github.com/eduardojeem/Mipos-sub011/internal/domain"

// Data is one loaded catalog generation on the client. A refresh builds
// a new Data and swaps it in whole, so lookups never see a half-loaded
// catalog.
type Data struct {
	Products   []domain.Product
	Categories []domain.Category
	Customers  []domain.Customer

	productByID  map[string]domain.Product
	customerByID map[string]domain.Customer
}

func NewData(products []domain.Product, categories []domain.Category, customers []domain.Customer) *Data {
	d := &Data{
		Products:     products,
		Categories:   categories,
		Customers:    customers,
		productByID:  make(map[string]domain.Product, len(products)),
		customerByID: make(map[string]domain.Customer, len(customers)),
	}
	for _, p := range products {
		d.productByID[p.ID] = p
	}
	for _, c := range customers {
		d.customerByID[c.ID] = c
	}
	return d
}

func (d *Data) Product(id string) (domain.Product, bool) {
	p, ok := d.productByID[id]
	return p, ok
}

func (d *Data) Customer(id string) (domain.Customer, bool) {
	c, ok := d.customerByID[id]
	return c, ok
}
