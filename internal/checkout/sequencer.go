package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/cart"
	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

// Submitter hands a sale to the backend. Any non-success is an error;
// the sequencer never drops a sale silently.
type Submitter interface {
	Submit(ctx context.Context, sale *domain.SaleRecord) (*domain.SaleRecord, error)
}

// Overrides are the checkout-time inputs that live outside the cart:
// the register-level discount and the payment details.
type Overrides struct {
	Discount      decimal.Decimal
	DiscountType  domain.DiscountType
	PaymentMethod domain.PaymentMethod
	Notes         string
	CouponCode    string
	CustomerID    string
}

// Sequencer runs the checkout sequence: compute totals, submit, and
// only after the backend acknowledges, clear the cart and fan out the
// post-sale effects. A failed submission leaves the cart untouched so
// the operator can retry without re-entering anything.
type Sequencer struct {
	registerID string
	cart       *cart.Store
	calc       Calculator
	submitter  Submitter

	// Post-acknowledge effect, may be nil.
	onReceipt func(*domain.SaleRecord)

	newRef func() string
}

func NewSequencer(registerID string, store *cart.Store, calc Calculator, submitter Submitter) *Sequencer {
	return &Sequencer{
		registerID: registerID,
		cart:       store,
		calc:       calc,
		submitter:  submitter,
		newRef:     func() string { return uuid.New().String() },
	}
}

// OnReceipt registers the receipt callback, invoked with the accepted
// sale before the cart is cleared.
func (s *Sequencer) OnReceipt(fn func(*domain.SaleRecord)) { s.onReceipt = fn }

// Process runs one checkout. The returned record is the backend's
// accepted sale, ready for receipt rendering. ErrEmptyCart and totals
// errors are returned before anything is submitted.
func (s *Sequencer) Process(ctx context.Context, ov Overrides) (*domain.SaleRecord, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals, err := s.calc.Totals(lines, ov.Discount, ov.DiscountType)
	if err != nil {
		return nil, fmt.Errorf("compute totals: %w", err)
	}

	items := make([]domain.SaleItem, len(lines))
	for i, line := range lines {
		items[i] = domain.SaleItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
		}
	}

	sale := &domain.SaleRecord{
		RegisterID:    s.registerID,
		ClientRef:     s.newRef(),
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		DiscountType:  ov.DiscountType,
		Total:         totals.Total,
		PaymentMethod: ov.PaymentMethod,
		Notes:         ov.Notes,
		CouponCode:    ov.CouponCode,
		CustomerID:    ov.CustomerID,
	}

	accepted, err := s.submitter.Submit(ctx, sale)
	if err != nil {
		// Cart stays as-is for retry.
		return nil, fmt.Errorf("submit sale: %w", err)
	}

	// Clear only after the backend acknowledged; there is no
	// cancellation path for an in-flight submission.
	if s.onReceipt != nil {
		s.onReceipt(accepted)
	}
	s.cart.Clear()

	log.Printf("sale %s accepted, total %s", accepted.ID, accepted.Total)
	return accepted, nil
}
