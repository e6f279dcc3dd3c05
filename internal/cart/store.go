// Package cart holds the open cart for one mounted register screen.
// The store is the only owner of cart lines; callers mutate it through
// the methods here and read back defensive copies.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// Store is an in-memory cart. A mutex guards it because the realtime
// bridge's timers read it from their own goroutines while the UI loop
// mutates it.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLine // insertion order preserved for display

	// onActivity, when set, is called after every mutation so the
	// session can stamp last-activity for idle tracking.
	onActivity func()
}

func NewStore() *Store {
	return &Store{}
}

// OnActivity registers the activity callback. Must be called before the
// store is shared across goroutines.
func (s *Store) OnActivity(fn func()) {
	s.onActivity = fn
}

// Add merges quantity into an existing line for the product, or creates
// a new line snapshotting the product's current price (wholesale or
// retail per the wholesale flag). Quantities below one are ignored.
// Stock limits are the caller's concern, checked before calling in.
func (s *Store) Add(p domain.Product, quantity int, wholesale bool) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity += quantity
			s.mu.Unlock()
			s.touched()
			return
		}
	}
	s.lines = append(s.lines, domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: p.UnitPrice(wholesale),
		Wholesale: wholesale,
	})
	s.mu.Unlock()
	s.touched()
}

// SetQuantity sets a line's quantity to an absolute value. Zero or
// negative removes the line. Unknown product IDs are a no-op.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.touched()
}

// Remove deletes the line for the product if present. Removing an
// absent line is a no-op, never an error.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.touched()
}

// Clear empties the cart. Discount, notes and customer live in session
// state; the orchestrator resets those alongside.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.touched()
}

// Replace swaps the full line set, used by draft restore. Lines with a
// non-positive quantity are dropped so the store invariant holds no
// matter what was persisted.
func (s *Store) Replace(lines []domain.CartLine) {
	clean := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			clean = append(clean, l)
		}
	}

	s.mu.Lock()
	s.lines = clean
	s.mu.Unlock()
	s.touched()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the quantity for a product, zero when absent.
func (s *Store) Quantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// ItemCount is the total unit count across all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums line totals at snapshotted prices. Tax and discounts
// are the checkout calculator's concern.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (s *Store) touched() {
	if s.onActivity != nil {
		s.onActivity()
	}
}
