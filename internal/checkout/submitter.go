package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// HTTPSubmitter posts sales to the posd API. A circuit breaker sits in
// front so a dead backend fails fast instead of stacking up timeouts
// while the operator keeps hitting the sale key.
type HTTPSubmitter struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.SaleRecord]
}

func NewHTTPSubmitter(baseURL string) *HTTPSubmitter {
	settings := gobreaker.Settings{
		Name:    "sale-submit",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &HTTPSubmitter{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*domain.SaleRecord](settings),
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, sale *domain.SaleRecord) (*domain.SaleRecord, error) {
	return s.breaker.Execute(func() (*domain.SaleRecord, error) {
		return s.post(ctx, sale)
	})
}

func (s *HTTPSubmitter) post(ctx context.Context, sale *domain.SaleRecord) (*domain.SaleRecord, error) {
	body, err := json.Marshal(sale)
	if err != nil {
		return nil, fmt.Errorf("marshal sale: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/sales", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post sale: %w", err)
	}
	defer resp.Body.Close()

	// 200 is a fresh accept, 409 is an idempotent replay of a sale the
	// backend already stored; both carry the accepted record.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sale rejected: status %d: %s", resp.StatusCode, msg)
	}

	var accepted domain.SaleRecord
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, fmt.Errorf("decode sale response: %w", err)
	}
	return &accepted, nil
}
