package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

type mockRepo struct {
	mu       sync.Mutex
	products []domain.Product
	calls    int
	err      error
}

func (m *mockRepo) ListProducts(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockRepo) ListCategories(context.Context) ([]domain.Category, error) { return nil, nil }
func (m *mockRepo) ListCustomers(context.Context) ([]domain.Customer, error)  { return nil, nil }
func (m *mockRepo) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, ErrProductNotFound
}

type mockCache struct {
	mu       sync.Mutex
	products []domain.Product
	getErr   error
	deleted  int
}

func (m *mockCache) Get(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.products == nil {
		return nil, ErrCacheMiss
	}
	return m.products, nil
}

func (m *mockCache) Set(_ context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = products
	return nil
}

func (m *mockCache) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = nil
	m.deleted++
	return nil
}

func (m *mockCache) has() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products != nil
}

func TestListProductsCacheHitSkipsRepo(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{products: []domain.Product{{ID: "1", Name: "Cola"}}}
	s := NewService(repo, cache)

	got, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, repo.calls)
}

func TestListProductsCacheMissFallsBackAndFills(t *testing.T) {
	repo := &mockRepo{products: []domain.Product{{ID: "1", Name: "Cola", Price: decimal.New(150, -2)}}}
	cache := &mockCache{}
	s := NewService(repo, cache)

	got, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, repo.calls)

	// Cache fill is async.
	assert.Eventually(t, cache.has, time.Second, 10*time.Millisecond)
}

func TestListProductsCacheErrorIsAbsorbed(t *testing.T) {
	repo := &mockRepo{products: []domain.Product{{ID: "1"}}}
	cache := &mockCache{getErr: errors.New("redis down")}
	s := NewService(repo, cache)

	got, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListProductsRepoErrorPropagates(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	s := NewService(repo, &mockCache{})

	_, err := s.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestInvalidateDropsCache(t *testing.T) {
	cache := &mockCache{products: []domain.Product{{ID: "1"}}}
	s := NewService(&mockRepo{}, cache)

	s.Invalidate(context.Background())
	assert.Equal(t, 1, cache.deleted)
	assert.False(t, cache.has())
}
