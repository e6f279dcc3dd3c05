package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

func product(id string, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.RequireFromString(price),
		Stock: 100,
	}
}

func TestAddMergesSameProduct(t *testing.T) {
	s := NewStore()
	p := product("p1", "10.00")

	s.Add(p, 2, false)
	s.Add(p, 3, false)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestAddSnapshotsWholesalePrice(t *testing.T) {
	s := NewStore()
	p := product("p1", "10.00")
	p.WholesalePrice = decimal.RequireFromString("8.50")

	s.Add(p, 1, true)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Wholesale)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("8.50")))
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "1.00"), 0, false)
	s.Add(product("p1", "1.00"), -3, false)
	assert.True(t, s.IsEmpty())
}

func TestSetQuantityIsAbsolute(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 5, false)

	s.SetQuantity("p1", 2)
	assert.Equal(t, 2, s.Quantity("p1"))
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 5, false)

	s.SetQuantity("p1", 0)
	assert.True(t, s.IsEmpty())

	s.Add(product("p2", "4.00"), 1, false)
	s.SetQuantity("p2", -1)
	assert.True(t, s.IsEmpty())
}

func TestRemoveAbsentLineIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, false)

	s.Remove("missing")
	assert.Equal(t, 1, s.LineCount())
}

func TestClearEmptiesCart(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, false)
	s.Add(product("p2", "5.00"), 2, false)

	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.ItemCount())
}

func TestNoLineEverHasNonPositiveQuantity(t *testing.T) {
	s := NewStore()
	p1 := product("p1", "10.00")
	p2 := product("p2", "5.00")

	s.Add(p1, 3, false)
	s.Add(p2, 1, false)
	s.SetQuantity("p1", -5)
	s.Add(p1, 2, false)
	s.SetQuantity("p2", 0)
	s.Add(p2, 1, false)
	s.Remove("p1")
	s.Add(p1, 4, false)

	for _, l := range s.Lines() {
		assert.Positive(t, l.Quantity)
	}
}

func TestReplaceDropsInvalidLines(t *testing.T) {
	s := NewStore()
	s.Replace([]domain.CartLine{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.New(100, -2)},
		{ProductID: "p2", Quantity: 0, UnitPrice: decimal.New(100, -2)},
		{ProductID: "p3", Quantity: -1, UnitPrice: decimal.New(100, -2)},
	})

	require.Equal(t, 1, s.LineCount())
	assert.Equal(t, 2, s.Quantity("p1"))
}

func TestSubtotalSumsSnapshotPrices(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 2, false)
	s.Add(product("p2", "5.00"), 1, false)

	assert.True(t, s.Subtotal().Equal(decimal.RequireFromString("25.00")))
}

func TestMutationsInvokeActivityCallback(t *testing.T) {
	s := NewStore()
	calls := 0
	s.OnActivity(func() { calls++ })

	s.Add(product("p1", "10.00"), 1, false)
	s.SetQuantity("p1", 3)
	s.Remove("p1")
	s.Clear()

	assert.Equal(t, 4, calls)
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, false)

	lines := s.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, s.Quantity("p1"))
}
