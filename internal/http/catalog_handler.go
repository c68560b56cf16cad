package http

import (
	"net/http"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// GET /api/catalog?q=latte
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.backendsFor(r).Catalog.ListProducts(r.Context())
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	products = domain.FilterProducts(products, r.URL.Query().Get("q"))
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/catalog/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}
	p, err := h.backendsFor(r).Catalog.GetProduct(r.Context(), id)
	if err != nil {
		handleGatewayError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
