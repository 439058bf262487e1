package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// CartManager is the cart surface the handlers need.
type CartManager interface {
	Add(ctx context.Context, product domain.Product, quantity int) error
	Remove(ctx context.Context, productID int64) error
	SetQuantity(ctx context.Context, productID int64, quantity int) error
	Clear(ctx context.Context) error
	Snapshot() domain.Cart
}

type CartHandler struct {
	cart    CartManager
	timeout time.Duration
}

func NewCartHandler(cart CartManager, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: cart, timeout: timeout}
}

type cartResponse struct {
	Items []domain.LineItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int) {
	cart := h.cart.Snapshot()
	respondJSON(w, status, cartResponse{
		Items: cart.Items,
		Total: cart.Total(),
		Count: cart.Count(),
	})
}

// AddItemRequestDTO carries the product the UI already holds from the
// listing, plus the requested quantity. Quantity excess over stock is
// clamped by the cart, not rejected here.
type AddItemRequestDTO struct {
	ProductID int64   `json:"product_id"`
	SKU       string  `json:"sku"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product := domain.Product{
		ID:    req.ProductID,
		SKU:   req.SKU,
		Title: req.Title,
		Price: req.Price,
		Image: req.Image,
		Stock: req.Stock,
	}

	if err := h.cart.Add(ctx, product, req.Quantity); err != nil {
		respondError(w, r, http.StatusInternalServerError, "persistence_failed", err.Error())
		return
	}

	h.respondCart(w, http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.cart.SetQuantity(ctx, productID, req.Quantity); err != nil {
		respondError(w, r, http.StatusInternalServerError, "persistence_failed", err.Error())
		return
	}

	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(ctx, productID); err != nil {
		respondError(w, r, http.StatusInternalServerError, "persistence_failed", err.Error())
		return
	}

	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.Clear(ctx); err != nil {
		respondError(w, r, http.StatusInternalServerError, "persistence_failed", err.Error())
		return
	}

	h.respondCart(w, http.StatusOK)
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
