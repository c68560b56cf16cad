package http

import (
	"net/http"
	"strings"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/admin"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

type DashboardResponseDTO struct {
	Stats    admin.Stats      `json:"stats"`
	Products []domain.Product `json:"products"`
	Orders   []domain.Order   `json:"orders"`
}

// GET /api/admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	b := h.backendsFor(r)
	products, err := b.Catalog.ListProducts(r.Context())
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	orders, err := b.Orders.AllOrders(r.Context())
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, DashboardResponseDTO{
		Stats:    admin.ComputeStats(products, orders),
		Products: products,
		Orders:   orders,
	})
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (domain.ProductInput, bool) {
	var in domain.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		respondError(w, http.StatusBadRequest, "invalid_product", "name is required")
	case in.Price.IsNegative():
		respondError(w, http.StatusBadRequest, "invalid_product", "price must not be negative")
	case in.Stock < 0:
		respondError(w, http.StatusBadRequest, "invalid_product", "stock must not be negative")
	default:
		return in, true
	}
	return in, false
}

// POST /api/admin/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	p, err := h.backendsFor(r).Catalog.CreateProduct(r.Context(), in)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// PUT /api/admin/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}
	in, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	p, err := h.backendsFor(r).Catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DELETE /api/admin/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}
	if err := h.backendsFor(r).Catalog.DeleteProduct(r.Context(), id); err != nil {
		handleGatewayError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/admin/orders
func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.backendsFor(r).Orders.AllOrders(r.Context())
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// PUT /api/admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}
	var req domain.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}
	order, err := h.backendsFor(r).Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// DELETE /api/admin/orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}
	if err := h.backendsFor(r).Orders.DeleteOrder(r.Context(), id); err != nil {
		handleGatewayError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
