package sale

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

type mockRepository struct {
	sales     map[string]*domain.SaleRecord // keyed by register/ref
	events    []OutboxEvent
	processed []int64
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{sales: make(map[string]*domain.SaleRecord)}
}

func refKey(registerID, clientRef string) string { return registerID + "/" + clientRef }

func (m *mockRepository) CreateSale(_ context.Context, sale *domain.SaleRecord, events []OutboxEvent) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := refKey(sale.RegisterID, sale.ClientRef)
	if _, exists := m.sales[key]; exists {
		return ErrDuplicateSale
	}
	stored := *sale
	m.sales[key] = &stored
	m.events = append(m.events, events...)
	return nil
}

func (m *mockRepository) GetSaleByClientRef(_ context.Context, registerID, clientRef string) (*domain.SaleRecord, error) {
	s, ok := m.sales[refKey(registerID, clientRef)]
	if !ok {
		return nil, ErrSaleNotFound
	}
	return s, nil
}

func (m *mockRepository) GetUnprocessedEvents(_ context.Context, limit int) ([]*OutboxEvent, error) {
	out := make([]*OutboxEvent, 0, len(m.events))
	for i := range m.events {
		if len(out) == limit {
			break
		}
		m.events[i].ID = int64(i + 1)
		out = append(out, &m.events[i])
	}
	return out, nil
}

func (m *mockRepository) MarkEventProcessed(_ context.Context, id int64) error {
	m.processed = append(m.processed, id)
	return nil
}

func validSale() *domain.SaleRecord {
	return &domain.SaleRecord{
		RegisterID: "reg-1",
		ClientRef:  "ref-1",
		Items: []domain.SaleItem{
			{ProductID: "p1", ProductName: "Cola", Quantity: 2,
				UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("20.00")},
			{ProductID: "p2", ProductName: "Bread", Quantity: 1,
				UnitPrice: decimal.RequireFromString("5.00"), LineTotal: decimal.RequireFromString("5.00")},
		},
		Subtotal:      decimal.RequireFromString("25.00"),
		Discount:      decimal.RequireFromString("2.50"),
		DiscountType:  domain.DiscountPercentage,
		Total:         decimal.RequireFromString("22.50"),
		PaymentMethod: domain.PaymentCash,
	}
}

func TestSubmitAcceptsValidSale(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	got, replayed, err := svc.Submit(context.Background(), validSale())
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSubmitWritesOutboxEvents(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	got, _, err := svc.Submit(context.Background(), validSale())
	require.NoError(t, err)

	// One sale_created plus one inventory_movement per item.
	require.Len(t, repo.events, 3)
	assert.Equal(t, "sale_created", repo.events[0].EventType)
	assert.Equal(t, got.ID, repo.events[0].AggregateID)

	var movement struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(repo.events[1].Payload, &movement))
	assert.Equal(t, "p1", movement.ProductID)
	assert.Equal(t, -2, movement.Quantity)
}

func TestSubmitDuplicateReplaysStoredSale(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	first, _, err := svc.Submit(context.Background(), validSale())
	require.NoError(t, err)

	second, replayed, err := svc.Submit(context.Background(), validSale())
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	// No second batch of events either.
	assert.Len(t, repo.events, 3)
}

func TestSubmitValidation(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	cases := map[string]func(*domain.SaleRecord){
		"missing register":   func(s *domain.SaleRecord) { s.RegisterID = "" },
		"missing client ref": func(s *domain.SaleRecord) { s.ClientRef = "" },
		"no items":           func(s *domain.SaleRecord) { s.Items = nil },
		"zero quantity":      func(s *domain.SaleRecord) { s.Items[0].Quantity = 0 },
		"negative price":     func(s *domain.SaleRecord) { s.Items[0].UnitPrice = decimal.RequireFromString("-1") },
		"negative total":     func(s *domain.SaleRecord) { s.Total = decimal.RequireFromString("-1") },
		"inconsistent total": func(s *domain.SaleRecord) { s.Total = decimal.RequireFromString("99.99") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			sale := validSale()
			mutate(sale)
			_, _, err := svc.Submit(context.Background(), sale)
			assert.ErrorIs(t, err, ErrInvalidSale)
		})
	}
}
