package draft

import (
	"fmt"
	"log"
	"time"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// Resolver answers whether snapshot references still exist in the live
// catalog. The catalog Data type satisfies it.
type Resolver interface {
	Product(id string) (domain.Product, bool)
	Customer(id string) (domain.Customer, bool)
}

// Manager sits between the orchestrator and the raw slot: it stamps
// snapshots on save and prunes stale references on restore.
type Manager struct {
	store   Store
	resolve Resolver
	now     func() time.Time
}

func NewManager(store Store, resolve Resolver) *Manager {
	return &Manager{
		store:   store,
		resolve: resolve,
		now:     time.Now,
	}
}

// Save copies the snapshot into the slot, overwriting any prior draft.
func (m *Manager) Save(snapshot domain.CartSnapshot) error {
	snapshot.SavedAt = m.now()
	// Copy lines so the stored draft is decoupled from the live cart.
	lines := make([]domain.CartLine, len(snapshot.Lines))
	copy(lines, snapshot.Lines)
	snapshot.Lines = lines

	if err := m.store.Save(snapshot); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Has reports whether the slot holds a readable draft.
func (m *Manager) Has() bool {
	_, ok, err := m.store.Load()
	if err != nil {
		log.Printf("draft lookup failed: %v", err)
		return false
	}
	return ok
}

// Restore loads the slot, drops lines whose product no longer resolves
// and a customer reference that no longer resolves, then hands the
// pruned snapshot to apply. The caller replays it into the cart store
// and session state. Returns false when there is nothing to restore.
func (m *Manager) Restore(apply func(domain.CartSnapshot)) (bool, error) {
	snapshot, ok, err := m.store.Load()
	if err != nil {
		return false, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return false, nil
	}

	kept := snapshot.Lines[:0:0]
	for _, line := range snapshot.Lines {
		if _, exists := m.resolve.Product(line.ProductID); exists {
			kept = append(kept, line)
		} else {
			log.Printf("draft line dropped, product %s no longer in catalog", line.ProductID)
		}
	}
	snapshot.Lines = kept

	if snapshot.CustomerID != "" {
		if _, exists := m.resolve.Customer(snapshot.CustomerID); !exists {
			log.Printf("draft customer %s no longer exists, dropping reference", snapshot.CustomerID)
			snapshot.CustomerID = ""
		}
	}

	apply(snapshot)
	return true, nil
}

// Clear invalidates the slot, called after a successful checkout.
func (m *Manager) Clear() error {
	return m.store.Clear()
}
