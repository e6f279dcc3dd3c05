package sale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

var ErrInvalidSale = errors.New("invalid sale")

// Service accepts sale submissions from the registers. Submission is
// idempotent on (register id, client ref): a retry of an accepted sale
// replays the stored record instead of creating a second one.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Submit validates and persists a sale. The bool reports an idempotent
// replay. On fresh accepts the outbox rows (sale created plus one
// inventory movement per item) are written in the same transaction.
func (s *Service) Submit(ctx context.Context, sale *domain.SaleRecord) (*domain.SaleRecord, bool, error) {
	if err := validate(sale); err != nil {
		return nil, false, err
	}

	stored := *sale
	stored.ID = uuid.New().String()
	stored.CreatedAt = s.now()

	events, err := outboxEvents(&stored)
	if err != nil {
		return nil, false, fmt.Errorf("build outbox events: %w", err)
	}

	err = s.repo.CreateSale(ctx, &stored, events)
	if errors.Is(err, ErrDuplicateSale) {
		existing, errGet := s.repo.GetSaleByClientRef(ctx, sale.RegisterID, sale.ClientRef)
		if errGet != nil {
			return nil, false, fmt.Errorf("load existing sale: %w", errGet)
		}
		log.Printf("duplicate submission register=%s ref=%s replaying sale %s",
			sale.RegisterID, sale.ClientRef, existing.ID)
		return existing, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &stored, false, nil
}

func validate(sale *domain.SaleRecord) error {
	if sale.RegisterID == "" {
		return fmt.Errorf("%w: missing register id", ErrInvalidSale)
	}
	if sale.ClientRef == "" {
		return fmt.Errorf("%w: missing client ref", ErrInvalidSale)
	}
	if len(sale.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidSale)
	}
	for _, item := range sale.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item without product id", ErrInvalidSale)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %s has non-positive quantity", ErrInvalidSale, item.ProductID)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %s has negative unit price", ErrInvalidSale, item.ProductID)
		}
	}
	if sale.Total.IsNegative() || sale.Discount.IsNegative() {
		return fmt.Errorf("%w: negative totals", ErrInvalidSale)
	}
	if !sale.Subtotal.Sub(sale.Discount).Equal(sale.Total) {
		return fmt.Errorf("%w: total %s does not match subtotal %s minus discount %s",
			ErrInvalidSale, sale.Total, sale.Subtotal, sale.Discount)
	}
	return nil
}

func outboxEvents(sale *domain.SaleRecord) ([]OutboxEvent, error) {
	salePayload, err := json.Marshal(map[string]interface{}{
		"sale_id":     sale.ID,
		"register_id": sale.RegisterID,
		"total":       sale.Total,
		"created_at":  sale.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	events := []OutboxEvent{{
		AggregateID: sale.ID,
		EventType:   "sale_created",
		Payload:     salePayload,
	}}

	for _, item := range sale.Items {
		movement, err := json.Marshal(map[string]interface{}{
			"sale_id":    sale.ID,
			"product_id": item.ProductID,
			"quantity":   -item.Quantity,
		})
		if err != nil {
			return nil, err
		}
		events = append(events, OutboxEvent{
			AggregateID: sale.ID,
			EventType:   "inventory_movement",
			Payload:     movement,
		})
	}
	return events, nil
}
