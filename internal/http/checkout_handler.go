package http

import (
	"errors"
	"net/http"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/checkout"
)

type CheckoutResponseDTO struct {
	OrderID int64 `json:"orderId"`
}

func (h *Handler) checkoutFor(r *http.Request) *checkout.Service {
	b := h.backendsFor(r)
	return checkout.NewService(b.Orders, b.Payments)
}

// POST /api/checkout
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := h.checkoutFor(r).PlaceOrder(r.Context(), sessionFrom(r))
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case err != nil:
		handleGatewayError(w, r, err)
	default:
		respondJSON(w, http.StatusCreated, CheckoutResponseDTO{OrderID: orderID})
	}
}
