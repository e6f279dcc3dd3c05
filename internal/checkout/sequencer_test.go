package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/cart"
	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

type fakeCalc struct {
	totals Totals
	err    error
}

func (f fakeCalc) Totals([]domain.CartLine, decimal.Decimal, domain.DiscountType) (Totals, error) {
	return f.totals, f.err
}

type fakeSubmitter struct {
	err      error
	received *domain.SaleRecord
}

func (f *fakeSubmitter) Submit(_ context.Context, sale *domain.SaleRecord) (*domain.SaleRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.received = sale
	accepted := *sale
	accepted.ID = "sale-1"
	return &accepted, nil
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore()
	s.Add(domain.Product{ID: "p1", Name: "Cola", Price: dec("10.00")}, 2, false)
	s.Add(domain.Product{ID: "p2", Name: "Bread", Price: dec("5.00")}, 1, false)
	return s
}

func TestProcessEmptyCartFails(t *testing.T) {
	store := cart.NewStore()
	seq := NewSequencer("reg-1", store, fakeCalc{}, &fakeSubmitter{})

	got, err := seq.Process(context.Background(), Overrides{DiscountType: domain.DiscountPercentage})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, store.IsEmpty())
}

func TestProcessSuccessSequencing(t *testing.T) {
	store := filledCart(t)
	sub := &fakeSubmitter{}
	seq := NewSequencer("reg-1", store, fakeCalc{totals: Totals{
		Subtotal: dec("25.00"), Discount: dec("2.50"), Total: dec("22.50"),
	}}, sub)

	receipts := 0
	seq.OnReceipt(func(s *domain.SaleRecord) {
		receipts++
		// The cart must still be intact when the receipt shows:
		// clearing happens only after acknowledgement.
		assert.False(t, store.IsEmpty())
		assert.Equal(t, "sale-1", s.ID)
	})

	got, err := seq.Process(context.Background(), Overrides{
		Discount:      dec("10"),
		DiscountType:  domain.DiscountPercentage,
		PaymentMethod: domain.PaymentCash,
		Notes:         "no bag",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 1, receipts)
	assert.True(t, store.IsEmpty())

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Cola", got.Items[0].ProductName)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].LineTotal.Equal(dec("20.00")))
	assert.True(t, got.Total.Equal(dec("22.50")))
	assert.Equal(t, domain.PaymentCash, got.PaymentMethod)
	assert.NotEmpty(t, sub.received.ClientRef)
	assert.Equal(t, "reg-1", sub.received.RegisterID)
}

func TestProcessSubmissionFailurePreservesCart(t *testing.T) {
	store := filledCart(t)
	seq := NewSequencer("reg-1", store, fakeCalc{totals: Totals{Total: dec("25.00")}},
		&fakeSubmitter{err: errors.New("backend down")})

	receiptShown := false
	seq.OnReceipt(func(*domain.SaleRecord) { receiptShown = true })

	got, err := seq.Process(context.Background(), Overrides{DiscountType: domain.DiscountPercentage})
	assert.Nil(t, got)
	assert.Error(t, err)

	assert.Equal(t, 2, store.LineCount())
	assert.False(t, receiptShown)
}

func TestProcessTotalsFailureSubmitsNothing(t *testing.T) {
	store := filledCart(t)
	sub := &fakeSubmitter{}
	seq := NewSequencer("reg-1", store, fakeCalc{err: errors.New("bad line")}, sub)

	_, err := seq.Process(context.Background(), Overrides{DiscountType: domain.DiscountPercentage})
	assert.Error(t, err)
	assert.Nil(t, sub.received)
	assert.Equal(t, 2, store.LineCount())
}
