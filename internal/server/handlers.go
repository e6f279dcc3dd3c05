package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/eduardojeem/Mipos-sub011/internal/catalog"
	"github.com/eduardojeem/Mipos-sub011/internal/domain"
	"github.com/eduardojeem/Mipos-sub011/internal/sale"
)

type Handler struct {
	catalog *catalog.Service
	sales   *sale.Service
	timeout time.Duration
}

func NewHandler(catalogSvc *catalog.Service, saleSvc *sale.Service, timeout time.Duration) *Handler {
	return &Handler{
		catalog: catalogSvc,
		sales:   saleSvc,
		timeout: timeout,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		log.Printf("list products failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not load products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		log.Printf("list categories failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not load categories")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customers, err := h.catalog.ListCustomers(ctx)
	if err != nil {
		log.Printf("list customers failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not load customers")
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	respondJSON(w, http.StatusOK, customers)
}

// SubmitSale accepts a sale from a register. A duplicate client ref
// answers 409 with the originally stored record so retrying registers
// can treat it as success.
func (h *Handler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.SaleRecord
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	accepted, replayed, err := h.sales.Submit(ctx, &req)
	if err != nil {
		if errors.Is(err, sale.ErrInvalidSale) {
			respondError(w, http.StatusBadRequest, "invalid_sale", err.Error())
			return
		}
		if errors.Is(err, sale.ErrInsufficientStock) {
			respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
			return
		}
		log.Printf("sale submission failed: %v", err)
		respondError(w, http.StatusInternalServerError, "submission_failed", "could not store sale")
		return
	}

	// Stock changed, so cached product lists are stale.
	if !replayed {
		h.catalog.Invalidate(ctx)
	}

	status := http.StatusOK
	if replayed {
		status = http.StatusConflict
	}
	respondJSON(w, status, accepted)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}
