package http

import (
	"net/http"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// GET /api/orders
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.backendsFor(r).Orders.MyOrders(r.Context())
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}
	details, err := h.checkoutFor(r).OrderDetails(r.Context(), id)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// POST /api/orders/{id}/pay
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}
	res, err := h.checkoutFor(r).Pay(r.Context(), id)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// POST /api/orders/{id}/cancel
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}
	order, err := h.backendsFor(r).Orders.CancelOrder(r.Context(), id)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
