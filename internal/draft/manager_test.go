package draft

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

type memStore struct {
	snapshot domain.CartSnapshot
	has      bool
	err      error
}

func (m *memStore) Save(s domain.CartSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.snapshot = s
	m.has = true
	return nil
}

func (m *memStore) Load() (domain.CartSnapshot, bool, error) {
	if m.err != nil {
		return domain.CartSnapshot{}, false, m.err
	}
	return m.snapshot, m.has, nil
}

func (m *memStore) Clear() error {
	m.has = false
	m.snapshot = domain.CartSnapshot{}
	return nil
}

type fakeResolver struct {
	products  map[string]bool
	customers map[string]bool
}

func (f fakeResolver) Product(id string) (domain.Product, bool) {
	return domain.Product{ID: id}, f.products[id]
}

func (f fakeResolver) Customer(id string) (domain.Customer, bool) {
	return domain.Customer{ID: id}, f.customers[id]
}

func TestManagerRoundTripUnchangedCatalog(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, fakeResolver{
		products:  map[string]bool{"p1": true, "p2": true},
		customers: map[string]bool{"c1": true},
	})

	require.NoError(t, m.Save(sampleSnapshot()))
	assert.True(t, m.Has())

	var got domain.CartSnapshot
	restored, err := m.Restore(func(s domain.CartSnapshot) { got = s })
	require.NoError(t, err)
	require.True(t, restored)

	want := sampleSnapshot()
	require.Len(t, got.Lines, 2)
	assert.Equal(t, want.Lines, got.Lines)
	assert.True(t, got.Discount.Equal(want.Discount))
	assert.Equal(t, want.Notes, got.Notes)
	assert.Equal(t, "c1", got.CustomerID)
	assert.False(t, got.SavedAt.IsZero())
}

func TestManagerRestoreDropsMissingProducts(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, fakeResolver{
		products:  map[string]bool{"p2": true}, // p1 was removed from the catalog
		customers: map[string]bool{"c1": true},
	})
	require.NoError(t, m.Save(sampleSnapshot()))

	var got domain.CartSnapshot
	restored, err := m.Restore(func(s domain.CartSnapshot) { got = s })
	require.NoError(t, err)
	require.True(t, restored)

	require.Len(t, got.Lines, 1)
	assert.Equal(t, "p2", got.Lines[0].ProductID)
	// Rest of the snapshot stays intact.
	assert.Equal(t, "deliver at noon", got.Notes)
	assert.True(t, got.WholesaleMode)
}

func TestManagerRestoreDropsMissingCustomer(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, fakeResolver{
		products:  map[string]bool{"p1": true, "p2": true},
		customers: map[string]bool{}, // c1 deleted
	})
	require.NoError(t, m.Save(sampleSnapshot()))

	var got domain.CartSnapshot
	restored, err := m.Restore(func(s domain.CartSnapshot) { got = s })
	require.NoError(t, err)
	require.True(t, restored)

	assert.Empty(t, got.CustomerID)
	assert.Len(t, got.Lines, 2)
}

func TestManagerRestoreNothingSaved(t *testing.T) {
	m := NewManager(&memStore{}, fakeResolver{})

	called := false
	restored, err := m.Restore(func(domain.CartSnapshot) { called = true })
	require.NoError(t, err)
	assert.False(t, restored)
	assert.False(t, called)
	assert.False(t, m.Has())
}

func TestManagerSaveDecouplesLines(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, fakeResolver{products: map[string]bool{"p1": true, "p2": true}})

	snapshot := sampleSnapshot()
	require.NoError(t, m.Save(snapshot))

	// Mutating the caller's slice must not reach the stored draft.
	snapshot.Lines[0].Quantity = 99
	assert.Equal(t, 2, store.snapshot.Lines[0].Quantity)
}

func TestManagerStoreErrorSurfaces(t *testing.T) {
	m := NewManager(&memStore{err: errors.New("disk gone")}, fakeResolver{})

	assert.Error(t, m.Save(sampleSnapshot()))
	assert.False(t, m.Has())

	_, err := m.Restore(func(domain.CartSnapshot) {})
	assert.Error(t, err)
}
