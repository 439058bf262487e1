package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/checkout"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/orders"
)

// CheckoutService is the checkout surface the handlers need.
type CheckoutService interface {
	SubmitEmail(ctx context.Context, customer checkout.Customer) error
	WhatsAppLink(ctx context.Context, customer checkout.Customer) (string, error)
	Back() error
	Cancel() error
}

type CheckoutHandler struct {
	service CheckoutService
	log     orders.Log
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, log orders.Log, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log, timeout: timeout}
}

type emailCheckoutRequestDTO struct {
	Email        string `json:"email"`
	ClientName   string `json:"clientName"`
	ClientPhone  string `json:"clientPhone"`
	Observations string `json:"observations"`
}

type whatsappCheckoutRequestDTO struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Observations string `json:"observations"`
}

func (h *CheckoutHandler) SubmitEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req emailCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer := checkout.Customer{
		Email:        req.Email,
		Name:         req.ClientName,
		Phone:        req.ClientPhone,
		Observations: req.Observations,
	}

	if err := h.service.SubmitEmail(ctx, customer); err != nil {
		handleCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *CheckoutHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req whatsappCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	customer := checkout.Customer{
		Name:         req.Name,
		Phone:        req.Phone,
		Observations: req.Observations,
	}

	link, err := h.service.WhatsAppLink(ctx, customer)
	if err != nil {
		handleCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": link})
}

// Back returns the checkout flow to unselected so the customer can
// pick the other channel.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Back(); err != nil {
		handleCheckoutError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unselected"})
}

// Cancel abandons the checkout attempt. The cart is kept.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(); err != nil {
		handleCheckoutError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.log.ListRecent(ctx, 50)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "order_log_failed", err.Error())
		return
	}
	if records == nil {
		records = []orders.Record{}
	}

	respondJSON(w, http.StatusOK, records)
}

func handleCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidEmail):
		respondError(w, r, http.StatusBadRequest, "invalid_email", "email address must contain '@' and '.'")
	case errors.Is(err, checkout.ErrNameTooShort):
		respondError(w, r, http.StatusBadRequest, "invalid_name", "name must have at least 2 characters")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, r, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrInvalidTransition):
		respondError(w, r, http.StatusConflict, "invalid_flow_state", err.Error())
	default:
		respondError(w, r, http.StatusBadGateway, "submit_failed", err.Error())
	}
}
